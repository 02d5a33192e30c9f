// Where: internal/synth/policy.go
// What: IAM role rendering for descriptor roles.
// Why: Keep trust and permission documents identical across the three nested stacks.
package synth

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation/iam"
	"github.com/poruru/mlstack/internal/descriptor"
)

const policyVersion = "2012-10-17"

// arnResolver renders a reference to an ARN-bearing descriptor inside one template.
type arnResolver func(target descriptor.HasArn) (string, error)

func renderRole(role descriptor.RoleSpec, policyName string, resolve arnResolver) (*iam.Role, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	out := &iam.Role{
		AssumeRolePolicyDocument: map[string]any{
			"Version": policyVersion,
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": role.TrustedService},
					"Action":    "sts:AssumeRole",
				},
			},
		},
	}
	if len(role.ManagedPolicies) > 0 {
		out.ManagedPolicyArns = append([]string{}, role.ManagedPolicies...)
	}
	if len(role.Statements) == 0 {
		return out, nil
	}

	statements := make([]any, 0, len(role.Statements))
	for _, st := range role.Statements {
		resources := make([]string, 0, len(st.Resources))
		for _, ref := range st.Resources {
			if ref.Target == nil {
				resources = append(resources, ref.Literal)
				continue
			}
			arn, err := resolve(ref.Target)
			if err != nil {
				return nil, err
			}
			resources = append(resources, arn)
		}
		statements = append(statements, map[string]any{
			"Effect":   "Allow",
			"Action":   append([]string{}, st.Actions...),
			"Resource": resources,
		})
	}
	out.Policies = []iam.Role_Policy{{
		PolicyName: policyName,
		PolicyDocument: map[string]any{
			"Version":   policyVersion,
			"Statement": statements,
		},
	}}
	return out, nil
}

// parameterResolver resolves targets that arrive as template parameters.
func parameterResolver(params map[string]string) arnResolver {
	return func(target descriptor.HasArn) (string, error) {
		ref, ok := params[target.ArnOutput()]
		if !ok {
			return "", fmt.Errorf("no parameter carries %s", target.ArnOutput())
		}
		return ref, nil
	}
}
