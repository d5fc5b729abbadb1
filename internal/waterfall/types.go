// Package waterfall decomposes a household's tax liability change into
// per-reform steps between a baseline anchor and a final total, and checks
// the decomposition against the dataset's own stored total.
package waterfall

// StepKind tells renderers how to draw a step.
type StepKind string

const (
	// StepAbsolute anchors the chart at a level, not a change.
	StepAbsolute StepKind = "absolute"
	// StepRelative moves the running level by a signed delta.
	StepRelative StepKind = "relative"
	// StepTotal closes the chart at the stored final level.
	StepTotal StepKind = "total"
)

// Anchor step labels.
const (
	BaselineLabel = "Baseline"
	FinalLabel    = "Final"
)

// Step is one bar of the decomposition. Delta is the level itself for
// absolute and total steps and the signed change for relative steps;
// Running is the cumulative level after the step.
type Step struct {
	Label   string
	Delta   float64
	Running float64
	Kind    StepKind
}

// Options selects which tax liabilities the anchors include. At least one
// must be set.
type Options struct {
	ShowFederal bool `json:"federal"`
	ShowState   bool `json:"state"`
}

// Driver is the reform component with the largest absolute net income
// impact on the household.
type Driver struct {
	Name           string
	NetIncomeDelta float64
}

// Result is a computed decomposition.
type Result struct {
	Steps    []Step
	Baseline float64
	Final    float64
	Driver   *Driver
}
