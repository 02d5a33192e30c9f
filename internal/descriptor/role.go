// Where: internal/descriptor/role.go
// What: IAM role and policy statement descriptors.
// Why: Each unit owns exactly one execution identity with minimal actions.
package descriptor

import (
	"fmt"
	"strings"
)

// Service principals trusted by the three unit roles.
const (
	ServiceLambda       = "lambda.amazonaws.com"
	ServiceStates       = "states.amazonaws.com"
	ServiceAPIGateway   = "apigateway.amazonaws.com"
	ManagedBasicExecARN = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"
)

// Actions granted by the orchestration and gateway roles.
const (
	ActionInvokeFunction     = "lambda:InvokeFunction"
	ActionStartSyncExecution = "states:StartSyncExecution"
)

// Wildcard is the resource scope used only when wildcard grants are opted in.
const Wildcard = "*"

// PolicyStatement is a single allow statement. Resources hold either
// literal ARNs or references to HasArn descriptors resolved at render time.
type PolicyStatement struct {
	Actions   []string
	Resources []ResourceRef
}

// ResourceRef points at a concrete ARN-bearing descriptor or at the wildcard.
type ResourceRef struct {
	Target  HasArn
	Literal string
}

// String renders the reference for diagnostics.
func (r ResourceRef) String() string {
	if r.Target != nil {
		return r.Target.LogicalID()
	}
	return r.Literal
}

// IsWildcard reports whether the reference is the "*" scope.
func (r ResourceRef) IsWildcard() bool {
	return r.Target == nil && r.Literal == Wildcard
}

// RefTo builds a resource reference to an ARN-bearing descriptor.
func RefTo(target HasArn) ResourceRef {
	return ResourceRef{Target: target}
}

// AnyResource builds the wildcard reference.
func AnyResource() ResourceRef {
	return ResourceRef{Literal: Wildcard}
}

// RoleSpec describes an execution role trusted by one service principal.
type RoleSpec struct {
	TrustedService  string
	ManagedPolicies []string
	Statements      []PolicyStatement
}

// Validate checks the single-principal invariant and that every statement
// is well formed.
func (r RoleSpec) Validate() error {
	if strings.TrimSpace(r.TrustedService) == "" {
		return fmt.Errorf("role must trust exactly one service principal")
	}
	if strings.ContainsAny(r.TrustedService, ", ") {
		return fmt.Errorf("role must trust exactly one service principal, got %q", r.TrustedService)
	}
	for i, st := range r.Statements {
		if len(st.Actions) == 0 {
			return fmt.Errorf("statement %d has no actions", i)
		}
		if len(st.Resources) == 0 {
			return fmt.Errorf("statement %d has no resources", i)
		}
	}
	return nil
}

// Actions returns the distinct actions granted by the role, in statement order.
func (r RoleSpec) Actions() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, st := range r.Statements {
		for _, action := range st.Actions {
			if _, ok := seen[action]; ok {
				continue
			}
			seen[action] = struct{}{}
			out = append(out, action)
		}
	}
	return out
}

func (r *RoleSpec) grant(statement PolicyStatement) error {
	if len(statement.Actions) == 0 || len(statement.Resources) == 0 {
		return NewConfigError(ErrInvalidValue, "role", "statement requires actions and resources")
	}
	r.Statements = append(r.Statements, statement)
	return nil
}
