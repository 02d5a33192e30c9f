// Where: internal/descriptor/model.go
// What: Model kinds served by the inference pipeline.
// Why: The orchestration fan-out expects exactly these keys.
package descriptor

// ModelKind is the logical key of one fan-out branch.
type ModelKind string

const (
	RandomForest    ModelKind = "random-forest"
	SupportVector   ModelKind = "support-vector"
	LinearRegressor ModelKind = "linear-regressor"
)

// ModelKinds returns the expected keys in declaration order.
func ModelKinds() []ModelKind {
	return []ModelKind{RandomForest, SupportVector, LinearRegressor}
}

// Known reports whether k is one of the expected keys.
func (k ModelKind) Known() bool {
	for _, kind := range ModelKinds() {
		if kind == k {
			return true
		}
	}
	return false
}
