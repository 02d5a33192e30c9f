// Where: internal/orchestration/orchestration.go
// What: Orchestration unit building the parallel fan-out state machine descriptor.
// Why: One synchronous fan-out node invoking every packaged model concurrently.
package orchestration

import (
	"fmt"
	"strings"

	"github.com/poruru/mlstack/internal/descriptor"
)

const unitName = "orchestration"

// KeyedFunction is one entry of the ordered function mapping.
type KeyedFunction struct {
	Key      descriptor.ModelKind
	Function descriptor.FunctionSpec
}

// Options tunes the generated role.
type Options struct {
	// WildcardGrants scopes lambda:InvokeFunction to "*" instead of the branch functions.
	WildcardGrants bool
}

// Build validates the keyed functions and returns the orchestration descriptor.
// The mapping must contain each expected model kind exactly once; branch order
// follows the order of functions.
func Build(name string, functions []KeyedFunction, opts Options) (descriptor.OrchestrationSpec, error) {
	name = strings.TrimSpace(name)
	if !descriptor.ValidName(name) {
		return descriptor.OrchestrationSpec{}, descriptor.NewConfigError(
			descriptor.ErrInvalidValue, unitName, "name %q is not usable as an identifier", name)
	}
	if err := validateKeys(functions); err != nil {
		return descriptor.OrchestrationSpec{}, err
	}

	spec := descriptor.OrchestrationSpec{
		Name: name,
		Mode: descriptor.ModeSynchronous,
		Role: descriptor.RoleSpec{TrustedService: descriptor.ServiceStates},
	}
	resources := make([]descriptor.ResourceRef, 0, len(functions))
	for _, entry := range functions {
		spec.FanOut.Branches = append(spec.FanOut.Branches, descriptor.Branch{
			Key:      entry.Key,
			Function: entry.Function,
		})
		resources = append(resources, descriptor.RefTo(entry.Function))
	}
	if opts.WildcardGrants {
		resources = []descriptor.ResourceRef{descriptor.AnyResource()}
	}
	if err := spec.Grant(descriptor.PolicyStatement{
		Actions:   []string{descriptor.ActionInvokeFunction},
		Resources: resources,
	}); err != nil {
		return descriptor.OrchestrationSpec{}, err
	}
	if err := spec.Role.Validate(); err != nil {
		return descriptor.OrchestrationSpec{}, fmt.Errorf("orchestration role: %w", err)
	}
	return spec, nil
}

func validateKeys(functions []KeyedFunction) error {
	seen := map[descriptor.ModelKind]struct{}{}
	targets := map[string]descriptor.ModelKind{}
	for _, entry := range functions {
		if !entry.Key.Known() {
			return descriptor.NewConfigError(descriptor.ErrUnknownKey, unitName, "%q", entry.Key)
		}
		if _, ok := seen[entry.Key]; ok {
			return descriptor.NewConfigError(descriptor.ErrDuplicateName, unitName, "key %q appears twice", entry.Key)
		}
		seen[entry.Key] = struct{}{}
		if strings.TrimSpace(entry.Function.Name) == "" {
			return descriptor.NewConfigError(descriptor.ErrMissingInput, unitName, "key %q has no function", entry.Key)
		}
		if other, ok := targets[entry.Function.Name]; ok {
			return descriptor.NewConfigError(descriptor.ErrDuplicateName, unitName,
				"function %q is bound to both %q and %q", entry.Function.Name, other, entry.Key)
		}
		targets[entry.Function.Name] = entry.Key
	}
	for _, kind := range descriptor.ModelKinds() {
		if _, ok := seen[kind]; !ok {
			return descriptor.NewConfigError(descriptor.ErrMissingKey, unitName, "%q", kind)
		}
	}
	return nil
}
