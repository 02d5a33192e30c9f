// Where: internal/descriptor/gateway.go
// What: HTTP gateway descriptor.
// Why: One POST route proxied into a synchronous orchestration start.
package descriptor

import "time"

// Route is a single HTTP method/path pair.
type Route struct {
	Method string
	Path   string
}

// Key renders the route key, e.g. "POST /".
func (r Route) Key() string {
	return r.Method + " " + r.Path
}

// Integration subtypes and payload contract used by the proxy.
const (
	IntegrationTypeProxy   = "AWS_PROXY"
	SubtypeStartSync       = "StepFunctions-StartSyncExecution"
	PayloadFormatVersion10 = "1.0"
	RequestBodySelector    = "$request.body"
)

// ProxySyncStart forwards the whole request body as orchestration input.
type ProxySyncStart struct {
	Target               HasArn
	PayloadFormatVersion string
}

// CorsSpec is the gateway CORS policy.
type CorsSpec struct {
	AllowHeaders []string
	AllowMethods []string
	AllowOrigins []string
	MaxAge       time.Duration
}

// GatewaySpec describes the HTTP endpoint.
type GatewaySpec struct {
	Name        string
	Route       Route
	Integration ProxySyncStart
	Cors        CorsSpec
	Role        RoleSpec
	// TimeoutMillis is the integration timeout. Zero leaves it to the gateway default.
	TimeoutMillis int
}

func (g GatewaySpec) LogicalID() string {
	return LogicalName(g.Name) + "Api"
}

// ArnOutput names the output carrying the API endpoint URL.
func (g GatewaySpec) ArnOutput() string {
	return g.LogicalID() + "Endpoint"
}

// RoleLogicalID names the integration credentials role.
func (g GatewaySpec) RoleLogicalID() string {
	return LogicalName(g.Name) + "Role"
}

func (g GatewaySpec) ExecutionRole() RoleSpec {
	return g.Role
}

func (g *GatewaySpec) Grant(statement PolicyStatement) error {
	return g.Role.grant(statement)
}

var _ Grantable = (*GatewaySpec)(nil)
