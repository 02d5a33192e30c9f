// Where: internal/descriptor/orchestration.go
// What: Orchestration (state machine) descriptor.
// Why: Capture the parallel fan-out topology independently of its rendering.
package descriptor

// ExecutionMode selects how callers wait for an orchestration run.
type ExecutionMode string

// ModeSynchronous blocks the caller until every branch completes.
const ModeSynchronous ExecutionMode = "SYNCHRONOUS"

// Branch is one fan-out branch: a single invoke step returning the raw payload.
type Branch struct {
	Key      ModelKind
	Function FunctionSpec
}

// ParallelFanOut runs all branches concurrently and joins on completion of all.
type ParallelFanOut struct {
	Branches []Branch
}

// OrchestrationSpec describes the state machine.
type OrchestrationSpec struct {
	Name   string
	FanOut ParallelFanOut
	Mode   ExecutionMode
	Role   RoleSpec
}

func (o OrchestrationSpec) LogicalID() string {
	return LogicalName(o.Name) + "StateMachine"
}

func (o OrchestrationSpec) ArnOutput() string {
	return o.LogicalID() + "Arn"
}

// RoleLogicalID names the state machine's execution role resource.
func (o OrchestrationSpec) RoleLogicalID() string {
	return LogicalName(o.Name) + "Role"
}

func (o OrchestrationSpec) ExecutionRole() RoleSpec {
	return o.Role
}

func (o *OrchestrationSpec) Grant(statement PolicyStatement) error {
	return o.Role.grant(statement)
}

// Functions returns the branch targets in branch order.
func (o OrchestrationSpec) Functions() []FunctionSpec {
	out := make([]FunctionSpec, 0, len(o.FanOut.Branches))
	for _, branch := range o.FanOut.Branches {
		out = append(out, branch.Function)
	}
	return out
}

var (
	_ HasArn    = OrchestrationSpec{}
	_ Grantable = (*OrchestrationSpec)(nil)
)
