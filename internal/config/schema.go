// Where: internal/config/schema.go
// What: JSON schema validation for stack.yml.
// Why: Reject unknown keys and malformed values before any descriptor is built.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const stackSchemaURL = "stack.schema.json"

//go:embed schema/stack.schema.json
var stackSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func validateStackDocument(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	var document any
	if err := decoder.Decode(&document); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(stackSchemaURL, bytes.NewReader(stackSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(stackSchemaURL)
	})
	return compiledSchema, schemaErr
}
