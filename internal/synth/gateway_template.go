// Where: internal/synth/gateway_template.go
// What: Nested template holding the HTTP API, its proxy integration and role.
// Why: The gateway only needs the state machine ARN passed in from the parent.
package synth

import (
	"fmt"
	"strings"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/apigatewayv2"
	"github.com/poruru/mlstack/internal/descriptor"
)

const (
	protocolHTTP     = "HTTP"
	defaultStageName = "$default"
)

func gatewayTemplate(spec descriptor.StackSpec) (*cloudformation.Template, error) {
	gw := spec.Gateway
	if gw.Integration.Target == nil {
		return nil, descriptor.NewConfigError(descriptor.ErrMissingInput, "synth", "gateway has no integration target")
	}
	template := cloudformation.NewTemplate()
	template.Description = fmt.Sprintf("%s: HTTP endpoint for synchronous inference", spec.Name)

	targetParam := gw.Integration.Target.ArnOutput()
	template.Parameters[targetParam] = cloudformation.Parameter{Type: "String"}
	params := map[string]string{targetParam: cloudformation.Ref(targetParam)}

	role, err := renderRole(gw.Role, gw.RoleLogicalID()+"Policy", parameterResolver(params))
	if err != nil {
		return nil, fmt.Errorf("gateway role: %w", err)
	}

	apiID := gw.LogicalID()
	integrationID := descriptor.LogicalName(gw.Name) + "Integration"
	routeID := descriptor.LogicalName(gw.Name) + "Route"
	stageID := descriptor.LogicalName(gw.Name) + "Stage"

	template.Resources[gw.RoleLogicalID()] = role
	template.Resources[apiID] = &apigatewayv2.Api{
		Name:         cloudformation.String(spec.Name),
		ProtocolType: cloudformation.String(protocolHTTP),
		CorsConfiguration: &apigatewayv2.Api_Cors{
			AllowHeaders: append([]string{}, gw.Cors.AllowHeaders...),
			AllowMethods: append([]string{}, gw.Cors.AllowMethods...),
			AllowOrigins: append([]string{}, gw.Cors.AllowOrigins...),
			MaxAge:       cloudformation.Int(int(gw.Cors.MaxAge.Seconds())),
		},
	}
	integration := &apigatewayv2.Integration{
		ApiId:                cloudformation.Ref(apiID),
		IntegrationType:      descriptor.IntegrationTypeProxy,
		IntegrationSubtype:   cloudformation.String(descriptor.SubtypeStartSync),
		CredentialsArn:       cloudformation.String(cloudformation.GetAtt(gw.RoleLogicalID(), "Arn")),
		PayloadFormatVersion: cloudformation.String(payloadVersion(gw)),
		RequestParameters: map[string]string{
			"Input":           descriptor.RequestBodySelector,
			"StateMachineArn": cloudformation.Ref(targetParam),
		},
	}
	if gw.TimeoutMillis > 0 {
		integration.TimeoutInMillis = cloudformation.Int(gw.TimeoutMillis)
	}
	template.Resources[integrationID] = integration
	template.Resources[routeID] = &apigatewayv2.Route{
		ApiId:    cloudformation.Ref(apiID),
		RouteKey: gw.Route.Key(),
		Target:   cloudformation.String(cloudformation.Sub("integrations/${" + integrationID + "}")),
	}
	template.Resources[stageID] = &apigatewayv2.Stage{
		ApiId:      cloudformation.Ref(apiID),
		StageName:  defaultStageName,
		AutoDeploy: cloudformation.Bool(true),
	}
	template.Outputs[gw.ArnOutput()] = cloudformation.Output{
		Value: cloudformation.GetAtt(apiID, "ApiEndpoint"),
	}
	return template, nil
}

func payloadVersion(gw descriptor.GatewaySpec) string {
	if v := strings.TrimSpace(gw.Integration.PayloadFormatVersion); v != "" {
		return v
	}
	return descriptor.PayloadFormatVersion10
}
