// Where: internal/descriptor/capability.go
// What: Small capability interfaces shared by descriptors.
// Why: Replace deep resource base classes with explicit, composable behaviour.
package descriptor

// HasArn is implemented by descriptors that materialize as a resource with an ARN.
// LogicalID names the resource inside its own template; ArnOutput names the
// stack output that carries the ARN to sibling stacks.
type HasArn interface {
	LogicalID() string
	ArnOutput() string
}

// Grantable is implemented by descriptors that own an execution identity.
type Grantable interface {
	Grant(statement PolicyStatement) error
	ExecutionRole() RoleSpec
}
