// Where: internal/composition/composition.go
// What: Top-level composition of packaging, orchestration and gateway units.
// Why: Build the descriptor graph bottom-up in plain function calls, no registry.
package composition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/gateway"
	"github.com/poruru/mlstack/internal/orchestration"
	"github.com/poruru/mlstack/internal/packaging"
)

// Packager is the packaging unit contract used by Compose.
type Packager interface {
	Build(name, buildContext, bucket, key string) (descriptor.FunctionSpec, error)
}

// Compose packages one function per configured model, fans them out in one
// orchestration and fronts it with one gateway. Any error aborts the whole
// composition; no partial StackSpec is returned.
func Compose(cfg config.Stack, packager Packager) (descriptor.StackSpec, error) {
	if packager == nil {
		return descriptor.StackSpec{}, fmt.Errorf("packager is nil")
	}
	name := strings.TrimSpace(cfg.Stack)
	if !descriptor.ValidName(name) {
		return descriptor.StackSpec{}, descriptor.NewConfigError(
			descriptor.ErrInvalidValue, "composition", "stack name %q is not usable as an identifier", cfg.Stack)
	}
	if err := rejectUnknownModels(cfg.Models); err != nil {
		return descriptor.StackSpec{}, err
	}

	functions := make([]descriptor.FunctionSpec, 0, len(cfg.Models))
	keyed := make([]orchestration.KeyedFunction, 0, len(cfg.Models))
	for _, kind := range descriptor.ModelKinds() {
		model, ok := cfg.Models[string(kind)]
		if !ok {
			continue
		}
		fn, err := packager.Build(model.UnitName(kind), model.Context, model.Bucket, model.Key)
		if err != nil {
			return descriptor.StackSpec{}, err
		}
		functions = append(functions, fn)
		keyed = append(keyed, orchestration.KeyedFunction{Key: kind, Function: fn})
	}

	orch, err := orchestration.Build(name, keyed, orchestration.Options{
		WildcardGrants: cfg.IAM.WildcardGrants,
	})
	if err != nil {
		return descriptor.StackSpec{}, err
	}

	gw, err := gateway.Build(name, orch, gateway.Options{
		WildcardGrants: cfg.IAM.WildcardGrants,
		TimeoutMillis:  cfg.Gateway.TimeoutMillis,
	})
	if err != nil {
		return descriptor.StackSpec{}, err
	}

	return descriptor.StackSpec{
		Name:          name,
		Functions:     functions,
		Orchestration: orch,
		Gateway:       gw,
	}, nil
}

// ComposeWithPackager builds a fresh packaging.Packager from cfg and composes
// the stack, returning the registered image jobs alongside.
func ComposeWithPackager(cfg config.Stack) (descriptor.StackSpec, []packaging.ImageJob, error) {
	packager := packaging.New(cfg.Dir, cfg.Images.Registry, cfg.Images.Tag)
	spec, err := Compose(cfg, packager)
	if err != nil {
		return descriptor.StackSpec{}, nil, err
	}
	return spec, packager.Jobs(), nil
}

func rejectUnknownModels(models map[string]config.Model) error {
	unknown := []string{}
	for key := range models {
		if !descriptor.ModelKind(key).Known() {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return descriptor.NewConfigError(descriptor.ErrUnknownKey, "composition", "%s", strings.Join(unknown, ", "))
}
