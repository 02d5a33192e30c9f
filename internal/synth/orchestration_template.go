// Where: internal/synth/orchestration_template.go
// What: Nested template holding the Express state machine and its role.
// Why: Function ARNs arrive as parameters so the nested stacks stay independent.
package synth

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/stepfunctions"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/orchestration"
)

// stateMachineTypeExpress is required for synchronous executions.
const stateMachineTypeExpress = "EXPRESS"

func orchestrationTemplate(spec descriptor.StackSpec) (*cloudformation.Template, error) {
	orch := spec.Orchestration
	if orch.Mode != descriptor.ModeSynchronous {
		return nil, descriptor.NewConfigError(descriptor.ErrInvalidValue, "synth", "unsupported execution mode %q", orch.Mode)
	}
	template := cloudformation.NewTemplate()
	template.Description = fmt.Sprintf("%s: parallel inference state machine", spec.Name)

	params := map[string]string{}
	for _, fn := range orch.Functions() {
		template.Parameters[fn.ArnOutput()] = cloudformation.Parameter{Type: "String"}
		params[fn.ArnOutput()] = cloudformation.Ref(fn.ArnOutput())
	}

	role, err := renderRole(orch.Role, orch.RoleLogicalID()+"Policy", parameterResolver(params))
	if err != nil {
		return nil, fmt.Errorf("orchestration role: %w", err)
	}
	definition := orchestration.BuildDefinition(orch, func(fn descriptor.HasArn) string {
		return params[fn.ArnOutput()]
	})

	template.Resources[orch.RoleLogicalID()] = role
	template.Resources[orch.LogicalID()] = &stepfunctions.StateMachine{
		StateMachineType: cloudformation.String(stateMachineTypeExpress),
		Definition:       definition,
		RoleArn:          cloudformation.GetAtt(orch.RoleLogicalID(), "Arn"),
	}
	template.Outputs[orch.ArnOutput()] = cloudformation.Output{
		Value: cloudformation.Ref(orch.LogicalID()),
	}
	return template, nil
}
