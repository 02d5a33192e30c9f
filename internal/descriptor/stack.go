// Where: internal/descriptor/stack.go
// What: Composition root descriptor.
// Why: Give renderers one value holding every unit of the pipeline.
package descriptor

// StackSpec owns every descriptor of one composition. It is built once and
// never mutated afterwards.
type StackSpec struct {
	Name          string
	Functions     []FunctionSpec
	Orchestration OrchestrationSpec
	Gateway       GatewaySpec
}

// Function looks up a function descriptor by unit name.
func (s StackSpec) Function(name string) (FunctionSpec, bool) {
	for _, fn := range s.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return FunctionSpec{}, false
}
