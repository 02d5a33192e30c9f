// Where: internal/synth/packaging_template.go
// What: Nested template holding the container-image functions and their roles.
// Why: Functions deploy first; their ARNs feed the orchestration stack.
package synth

import (
	"fmt"
	"sort"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/lambda"
	"github.com/poruru/mlstack/internal/descriptor"
)

const packageTypeImage = "Image"

func packagingTemplate(spec descriptor.StackSpec) (*cloudformation.Template, error) {
	template := cloudformation.NewTemplate()
	template.Description = fmt.Sprintf("%s: packaged inference functions", spec.Name)

	for _, fn := range spec.Functions {
		if _, exists := template.Resources[fn.LogicalID()]; exists {
			return nil, descriptor.NewConfigError(descriptor.ErrDuplicateName, "synth", "resource %s", fn.LogicalID())
		}
		role, err := renderRole(fn.Role, fn.RoleLogicalID()+"Policy", func(target descriptor.HasArn) (string, error) {
			return cloudformation.GetAtt(target.LogicalID(), "Arn"), nil
		})
		if err != nil {
			return nil, fmt.Errorf("function %s role: %w", fn.Name, err)
		}
		if fn.Image.Repository == "" {
			return nil, descriptor.NewConfigError(descriptor.ErrMissingInput, "synth", "function %s has no image", fn.Name)
		}

		template.Resources[fn.RoleLogicalID()] = role
		template.Resources[fn.LogicalID()] = &lambda.Function{
			PackageType: cloudformation.String(packageTypeImage),
			Code: &lambda.Function_Code{
				ImageUri: cloudformation.String(fn.Image.URI()),
			},
			Role:       cloudformation.GetAtt(fn.RoleLogicalID(), "Arn"),
			MemorySize: cloudformation.Int(fn.MemoryMB),
			Timeout:    cloudformation.Int(fn.TimeoutSeconds),
			Environment: &lambda.Function_Environment{
				Variables: copyEnv(fn.Environment),
			},
		}
		template.Outputs[fn.ArnOutput()] = cloudformation.Output{
			Value: cloudformation.GetAtt(fn.LogicalID(), "Arn"),
		}
	}
	return template, nil
}

func copyEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out[key] = env[key]
	}
	return out
}
