// Where: internal/synth/root_template.go
// What: Parent template composing the three nested stacks.
// Why: Wire sibling outputs through nested-stack parameters instead of a shared registry.
package synth

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
	cfnstack "github.com/awslabs/goformation/v7/cloudformation/cloudformation"
	"github.com/poruru/mlstack/internal/descriptor"
)

// Logical IDs of the nested stacks inside the parent template.
const (
	PackagingStackID     = "PackagingStack"
	OrchestrationStackID = "OrchestrationStack"
	GatewayStackID       = "GatewayStack"
)

func rootTemplate(spec descriptor.StackSpec, urls map[string]string) *cloudformation.Template {
	template := cloudformation.NewTemplate()
	template.Description = fmt.Sprintf("%s: serverless parallel inference pipeline", spec.Name)

	template.Resources[PackagingStackID] = &cfnstack.Stack{
		TemplateURL: urls[PackagingStackID],
	}

	orchParams := map[string]string{}
	for _, fn := range spec.Orchestration.Functions() {
		orchParams[fn.ArnOutput()] = cloudformation.GetAtt(PackagingStackID, "Outputs."+fn.ArnOutput())
	}
	template.Resources[OrchestrationStackID] = &cfnstack.Stack{
		TemplateURL: urls[OrchestrationStackID],
		Parameters:  orchParams,
	}

	target := spec.Gateway.Integration.Target.ArnOutput()
	template.Resources[GatewayStackID] = &cfnstack.Stack{
		TemplateURL: urls[GatewayStackID],
		Parameters: map[string]string{
			target: cloudformation.GetAtt(OrchestrationStackID, "Outputs."+target),
		},
	}

	template.Outputs[spec.Gateway.ArnOutput()] = cloudformation.Output{
		Value: cloudformation.GetAtt(GatewayStackID, "Outputs."+spec.Gateway.ArnOutput()),
	}
	template.Outputs[spec.Orchestration.ArnOutput()] = cloudformation.Output{
		Value: cloudformation.GetAtt(OrchestrationStackID, "Outputs."+spec.Orchestration.ArnOutput()),
	}
	return template
}
