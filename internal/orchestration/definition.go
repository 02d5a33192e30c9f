// Where: internal/orchestration/definition.go
// What: Amazon States Language rendering for the fan-out topology.
// Why: The state machine definition is the only behaviour the orchestration engine receives.
package orchestration

import (
	"encoding/json"

	"github.com/poruru/mlstack/internal/descriptor"
)

// FanOutStateName is the name of the single top-level Parallel state.
const FanOutStateName = "InvokeModels"

// Definition is an Amazon States Language document.
type Definition struct {
	Comment string           `json:"Comment,omitempty"`
	StartAt string           `json:"StartAt"`
	States  map[string]State `json:"States"`
}

// State covers the Parallel and Task states used here. Retry and Catch are
// never emitted: a failing branch fails the whole execution.
type State struct {
	Type     string   `json:"Type"`
	Resource string   `json:"Resource,omitempty"`
	Branches []Branch `json:"Branches,omitempty"`
	End      bool     `json:"End,omitempty"`
}

// Branch is one Parallel branch.
type Branch struct {
	StartAt string           `json:"StartAt"`
	States  map[string]State `json:"States"`
}

// ResourceFunc renders the Task resource for a branch function.
type ResourceFunc func(fn descriptor.HasArn) string

// ArnPlaceholder renders a "${<ArnOutput>}" substitution token. It is the
// default ResourceFunc.
func ArnPlaceholder(fn descriptor.HasArn) string {
	return "${" + fn.ArnOutput() + "}"
}

// BuildDefinition renders spec as a single Parallel state whose branches each
// invoke one function and return its raw payload. The execution output is the
// array of branch outputs in branch order. A nil resource uses ArnPlaceholder.
func BuildDefinition(spec descriptor.OrchestrationSpec, resource ResourceFunc) Definition {
	if resource == nil {
		resource = ArnPlaceholder
	}
	parallel := State{Type: "Parallel", End: true}
	for _, branch := range spec.FanOut.Branches {
		stateName := descriptor.LogicalName(string(branch.Key))
		parallel.Branches = append(parallel.Branches, Branch{
			StartAt: stateName,
			States: map[string]State{
				stateName: {
					Type:     "Task",
					Resource: resource(branch.Function),
					End:      true,
				},
			},
		})
	}
	return Definition{
		Comment: "Parallel inference across " + spec.Name + " models",
		StartAt: FanOutStateName,
		States:  map[string]State{FanOutStateName: parallel},
	}
}

// JSON encodes the definition.
func (d Definition) JSON() (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
