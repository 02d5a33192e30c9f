// Where: internal/orchestration/orchestration_test.go
// What: Tests for the orchestration unit and its state machine definition.
// Why: Ensure keyed fan-out validation and the rendered definition stay in sync.
package orchestration

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/poruru/mlstack/internal/descriptor"
)

func keyed(order ...descriptor.ModelKind) []KeyedFunction {
	out := make([]KeyedFunction, 0, len(order))
	for _, kind := range order {
		out = append(out, KeyedFunction{
			Key:      kind,
			Function: descriptor.FunctionSpec{Name: string(kind)},
		})
	}
	return out
}

func TestBuildPreservesInsertionOrder(t *testing.T) {
	order := []descriptor.ModelKind{descriptor.LinearRegressor, descriptor.RandomForest, descriptor.SupportVector}
	spec, err := Build("inference", keyed(order...), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Mode != descriptor.ModeSynchronous {
		t.Fatalf("unexpected mode: %s", spec.Mode)
	}
	if len(spec.FanOut.Branches) != 3 {
		t.Fatalf("expected 3 branches, got %d", len(spec.FanOut.Branches))
	}
	for i, branch := range spec.FanOut.Branches {
		if branch.Key != order[i] || branch.Function.Name != string(order[i]) {
			t.Fatalf("branch %d: got %s/%s", i, branch.Key, branch.Function.Name)
		}
	}
}

func TestBuildScopesInvokeToBranchFunctions(t *testing.T) {
	spec, err := Build("inference", keyed(descriptor.ModelKinds()...), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Role.TrustedService != descriptor.ServiceStates {
		t.Fatalf("unexpected trusted service: %s", spec.Role.TrustedService)
	}
	if len(spec.Role.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(spec.Role.Statements))
	}
	st := spec.Role.Statements[0]
	if len(st.Actions) != 1 || st.Actions[0] != descriptor.ActionInvokeFunction {
		t.Fatalf("unexpected actions: %v", st.Actions)
	}
	if len(st.Resources) != 3 {
		t.Fatalf("expected three scoped resources, got %v", st.Resources)
	}
	for i, ref := range st.Resources {
		if ref.IsWildcard() || ref.Target.ArnOutput() != spec.FanOut.Branches[i].Function.ArnOutput() {
			t.Fatalf("resource %d not scoped to branch function: %v", i, ref)
		}
	}
}

func TestBuildWildcardOptIn(t *testing.T) {
	spec, err := Build("inference", keyed(descriptor.ModelKinds()...), Options{WildcardGrants: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := spec.Role.Statements[0].Resources
	if len(res) != 1 || !res[0].IsWildcard() {
		t.Fatalf("expected wildcard resource, got %v", res)
	}
}

func TestBuildKeyErrors(t *testing.T) {
	cases := []struct {
		name  string
		input []KeyedFunction
		want  error
	}{
		{
			name:  "missing key",
			input: keyed(descriptor.RandomForest, descriptor.SupportVector),
			want:  descriptor.ErrMissingKey,
		},
		{
			name:  "unknown key",
			input: append(keyed(descriptor.ModelKinds()...), KeyedFunction{Key: "xgboost", Function: descriptor.FunctionSpec{Name: "xgb"}}),
			want:  descriptor.ErrUnknownKey,
		},
		{
			name:  "repeated key",
			input: append(keyed(descriptor.ModelKinds()...), KeyedFunction{Key: descriptor.RandomForest, Function: descriptor.FunctionSpec{Name: "rf2"}}),
			want:  descriptor.ErrDuplicateName,
		},
		{
			name: "shared function",
			input: []KeyedFunction{
				{Key: descriptor.RandomForest, Function: descriptor.FunctionSpec{Name: "same"}},
				{Key: descriptor.SupportVector, Function: descriptor.FunctionSpec{Name: "same"}},
				{Key: descriptor.LinearRegressor, Function: descriptor.FunctionSpec{Name: "lr"}},
			},
			want: descriptor.ErrDuplicateName,
		},
		{
			name:  "empty",
			input: nil,
			want:  descriptor.ErrMissingKey,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build("inference", tc.input, Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var cfgErr *descriptor.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestBuildDefinitionTopology(t *testing.T) {
	order := []descriptor.ModelKind{descriptor.SupportVector, descriptor.RandomForest, descriptor.LinearRegressor}
	spec, err := Build("inference", keyed(order...), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := BuildDefinition(spec, nil)
	if def.StartAt != FanOutStateName || len(def.States) != 1 {
		t.Fatalf("expected a single top-level state, got %v", def.States)
	}
	parallel := def.States[FanOutStateName]
	if parallel.Type != "Parallel" || !parallel.End {
		t.Fatalf("unexpected fan-out state: %+v", parallel)
	}
	if len(parallel.Branches) != 3 {
		t.Fatalf("expected three branches, got %d", len(parallel.Branches))
	}
	for i, branch := range parallel.Branches {
		task := branch.States[branch.StartAt]
		if task.Type != "Task" || !task.End {
			t.Fatalf("branch %d: unexpected task %+v", i, task)
		}
		want := "${" + descriptor.FunctionSpec{Name: string(order[i])}.ArnOutput() + "}"
		if task.Resource != want {
			t.Fatalf("branch %d: resource %s, want %s", i, task.Resource, want)
		}
	}

	payload, err := def.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.Contains(payload, "Retry") || strings.Contains(payload, "Catch") {
		t.Fatalf("definition must not configure retries: %s", payload)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("definition is not valid json: %v", err)
	}
}

func TestBuildDefinitionCustomResource(t *testing.T) {
	spec, err := Build("inference", keyed(descriptor.ModelKinds()...), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := BuildDefinition(spec, func(fn descriptor.HasArn) string {
		return "arn:aws:lambda:us-east-1:123456789012:function:" + fn.LogicalID()
	})
	branch := def.States[FanOutStateName].Branches[0]
	want := "arn:aws:lambda:us-east-1:123456789012:function:RandomForestFunction"
	if got := branch.States[branch.StartAt].Resource; got != want {
		t.Fatalf("unexpected resource: %s", got)
	}
}
