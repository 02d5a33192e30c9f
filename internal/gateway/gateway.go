// Where: internal/gateway/gateway.go
// What: Gateway unit: HTTP endpoint proxied into a synchronous orchestration start.
// Why: Expose the state machine as POST / without a custom backend service.
package gateway

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/poruru/mlstack/internal/descriptor"
)

const unitName = "gateway"

// MaxTimeoutMillis is the upper bound the HTTP gateway accepts for an integration.
const MaxTimeoutMillis = 30000

// CorsMaxAge is the preflight cache duration (10 days).
const CorsMaxAge = 10 * 24 * time.Hour

// Options tunes the generated gateway.
type Options struct {
	// WildcardGrants scopes states:StartSyncExecution to "*" instead of the target.
	WildcardGrants bool
	// TimeoutMillis sets the integration timeout; zero keeps the gateway default.
	TimeoutMillis int
}

// Build returns the gateway descriptor targeting orchestration.
func Build(name string, orchestration descriptor.HasArn, opts Options) (descriptor.GatewaySpec, error) {
	name = strings.TrimSpace(name)
	if !descriptor.ValidName(name) {
		return descriptor.GatewaySpec{}, descriptor.NewConfigError(
			descriptor.ErrInvalidValue, unitName, "name %q is not usable as an identifier", name)
	}
	if orchestration == nil {
		return descriptor.GatewaySpec{}, descriptor.NewConfigError(
			descriptor.ErrMissingInput, unitName, "orchestration target is required")
	}
	if opts.TimeoutMillis < 0 || opts.TimeoutMillis > MaxTimeoutMillis {
		return descriptor.GatewaySpec{}, descriptor.NewConfigError(
			descriptor.ErrInvalidValue, unitName, "timeout %dms outside 0..%d", opts.TimeoutMillis, MaxTimeoutMillis)
	}

	spec := descriptor.GatewaySpec{
		Name:  name,
		Route: descriptor.Route{Method: http.MethodPost, Path: "/"},
		Integration: descriptor.ProxySyncStart{
			Target:               orchestration,
			PayloadFormatVersion: descriptor.PayloadFormatVersion10,
		},
		Cors:          DefaultCors(),
		Role:          descriptor.RoleSpec{TrustedService: descriptor.ServiceAPIGateway},
		TimeoutMillis: opts.TimeoutMillis,
	}
	resource := descriptor.RefTo(orchestration)
	if opts.WildcardGrants {
		resource = descriptor.AnyResource()
	}
	if err := spec.Grant(descriptor.PolicyStatement{
		Actions:   []string{descriptor.ActionStartSyncExecution},
		Resources: []descriptor.ResourceRef{resource},
	}); err != nil {
		return descriptor.GatewaySpec{}, err
	}
	if err := spec.Role.Validate(); err != nil {
		return descriptor.GatewaySpec{}, fmt.Errorf("gateway role: %w", err)
	}
	return spec, nil
}

// DefaultCors is the open CORS policy served by the endpoint.
func DefaultCors() descriptor.CorsSpec {
	return descriptor.CorsSpec{
		AllowHeaders: []string{"Authorization"},
		AllowMethods: []string{http.MethodPost},
		AllowOrigins: []string{"*"},
		MaxAge:       CorsMaxAge,
	}
}
