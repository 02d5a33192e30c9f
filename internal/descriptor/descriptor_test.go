// Where: internal/descriptor/descriptor_test.go
// What: Tests for descriptor helpers and error types.
// Why: Keep logical IDs and error matching stable for templates and CLI hints.
package descriptor

import (
	"errors"
	"fmt"
	"testing"
)

func TestLogicalName(t *testing.T) {
	cases := map[string]string{
		"random-forest":    "RandomForest",
		"support_vector":   "SupportVector",
		"linear regressor": "LinearRegressor",
		"svm2":             "Svm2",
		"--":               "",
		"café-model":       "CafModel",
	}
	for in, want := range cases {
		if got := LogicalName(in); got != want {
			t.Fatalf("LogicalName(%q) = %q, want %q", in, got, want)
		}
	}
	if ValidName("2fast") {
		t.Fatalf("expected name starting with digit to be invalid")
	}
	if !ValidName("random-forest") {
		t.Fatalf("expected random-forest to be valid")
	}
	for _, name := range []string{"ñandu", "modèle", "αlpha"} {
		if ValidName(name) {
			t.Fatalf("expected non-ASCII name %q to be invalid", name)
		}
	}
}

func TestConfigErrorMatching(t *testing.T) {
	err := fmt.Errorf("compose: %w", NewConfigError(ErrDuplicateName, "packaging", "name %q", "svm"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected errors.Is to match duplicate name")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError")
	}
	if cfgErr.Unit != "packaging" {
		t.Fatalf("unexpected unit: %s", cfgErr.Unit)
	}
	want := `configuration error in packaging: duplicate name: name "svm"`
	if cfgErr.Error() != want {
		t.Fatalf("unexpected message: %s", cfgErr.Error())
	}
}

func TestBuildErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &BuildError{Unit: "svm", Path: "/ctx", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if err.Error() != "build svm (/ctx): boom" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestRoleValidate(t *testing.T) {
	fn := FunctionSpec{Name: "svm"}
	valid := RoleSpec{
		TrustedService: ServiceStates,
		Statements: []PolicyStatement{{
			Actions:   []string{ActionInvokeFunction},
			Resources: []ResourceRef{RefTo(fn)},
		}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid role, got %v", err)
	}

	invalid := []RoleSpec{
		{},
		{TrustedService: "a.amazonaws.com, b.amazonaws.com"},
		{TrustedService: ServiceStates, Statements: []PolicyStatement{{Resources: []ResourceRef{AnyResource()}}}},
		{TrustedService: ServiceStates, Statements: []PolicyStatement{{Actions: []string{ActionInvokeFunction}}}},
	}
	for i, role := range invalid {
		if err := role.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestGrantAppendsStatement(t *testing.T) {
	orch := &OrchestrationSpec{Name: "inference", Role: RoleSpec{TrustedService: ServiceStates}}
	var grantee Grantable = orch
	if err := grantee.Grant(PolicyStatement{
		Actions:   []string{ActionInvokeFunction, ActionInvokeFunction},
		Resources: []ResourceRef{AnyResource()},
	}); err != nil {
		t.Fatalf("unexpected grant error: %v", err)
	}
	if err := grantee.Grant(PolicyStatement{}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected invalid value error, got %v", err)
	}
	actions := grantee.ExecutionRole().Actions()
	if len(actions) != 1 || actions[0] != ActionInvokeFunction {
		t.Fatalf("unexpected actions: %v", actions)
	}
	if !orch.Role.Statements[0].Resources[0].IsWildcard() {
		t.Fatalf("expected wildcard resource")
	}
}

func TestIdentifiers(t *testing.T) {
	fn := FunctionSpec{Name: "random-forest"}
	if fn.LogicalID() != "RandomForestFunction" || fn.ArnOutput() != "RandomForestFunctionArn" {
		t.Fatalf("unexpected function ids: %s %s", fn.LogicalID(), fn.ArnOutput())
	}
	orch := OrchestrationSpec{Name: "inference"}
	if orch.LogicalID() != "InferenceStateMachine" {
		t.Fatalf("unexpected state machine id: %s", orch.LogicalID())
	}
	gw := GatewaySpec{Name: "inference", Route: Route{Method: "POST", Path: "/"}}
	if gw.Route.Key() != "POST /" {
		t.Fatalf("unexpected route key: %s", gw.Route.Key())
	}
	if (ImageRef{Repository: "repo/svm", Tag: "v1"}).URI() != "repo/svm:v1" {
		t.Fatalf("unexpected image uri")
	}
}
