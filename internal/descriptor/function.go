// Where: internal/descriptor/function.go
// What: Compute-function descriptor produced by the packaging unit.
// Why: Immutable description of one container-image function and its role.
package descriptor

// Fixed function sizing for every packaged model.
const (
	DefaultMemoryMB       = 1024
	DefaultTimeoutSeconds = 60
)

// ImageRef locates the container image built from a function's build context.
type ImageRef struct {
	Repository string
	Tag        string
}

// URI renders repository:tag.
func (r ImageRef) URI() string {
	if r.Tag == "" {
		return r.Repository
	}
	return r.Repository + ":" + r.Tag
}

// FunctionSpec describes one deployable compute function.
type FunctionSpec struct {
	Name           string
	BuildContext   string
	Environment    map[string]string
	MemoryMB       int
	TimeoutSeconds int
	Image          ImageRef
	Role           RoleSpec
}

func (f FunctionSpec) LogicalID() string {
	return LogicalName(f.Name) + "Function"
}

func (f FunctionSpec) ArnOutput() string {
	return f.LogicalID() + "Arn"
}

// RoleLogicalID names the function's execution role resource.
func (f FunctionSpec) RoleLogicalID() string {
	return LogicalName(f.Name) + "Role"
}

func (f FunctionSpec) ExecutionRole() RoleSpec {
	return f.Role
}

func (f *FunctionSpec) Grant(statement PolicyStatement) error {
	return f.Role.grant(statement)
}

var (
	_ HasArn    = FunctionSpec{}
	_ Grantable = (*FunctionSpec)(nil)
)
