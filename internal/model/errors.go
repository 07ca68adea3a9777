package model

import "fmt"

// ValidationError reports malformed or unmatched input. It is raised before
// any calculation starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// InvalidPolicyBoundsError reports an inverted min/max allocation bound pair.
type InvalidPolicyBoundsError struct {
	Min float64
	Max float64
}

func (e *InvalidPolicyBoundsError) Error() string {
	return fmt.Sprintf("invalid policy bounds: min allocation %.2f exceeds max %.2f", e.Min, e.Max)
}

// MissingAttendanceError reports a unit with no attendance profile in
// advanced mode. It is surfaced per unit and does not abort computation
// for other units.
type MissingAttendanceError struct {
	Unit string
}

func (e *MissingAttendanceError) Error() string {
	return fmt.Sprintf("unit %q has no attendance data (required in advanced mode)", e.Unit)
}

// ScenarioLockedError reports an attempted override mutation on a locked
// scenario.
type ScenarioLockedError struct {
	ScenarioID string
}

func (e *ScenarioLockedError) Error() string {
	return fmt.Sprintf("scenario %s is locked and rejects override changes", e.ScenarioID)
}

// Infeasibility constraint classes, used to tell a capacity-driven
// infeasibility apart from a policy-bound one.
const (
	ConstraintClassCapacity    = "capacity"
	ConstraintClassPolicyBound = "policy-bound"
)

// InfeasibleError reports that the optimization constraint set is
// unsatisfiable. It is a reportable business condition, not a programming
// error, and is never silently relaxed.
type InfeasibleError struct {
	ConstraintClass string
	Detail          string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("optimization infeasible (%s constraints): %s", e.ConstraintClass, e.Detail)
}
