package migrate

import (
	"context"
	"fmt"
	"time"
)

// Patch is a single forward-only migration.
type Patch interface {
	// Name identifies the patch in logs and errors.
	Name() string
	// IsApplied reports whether the effects of the patch are already
	// present. It must not modify the database.
	IsApplied(ctx context.Context, env *Env) (bool, error)
	// Apply brings the database to the shape IsApplied checks for. Running
	// it on a database where it was partially applied must complete the
	// remaining work.
	Apply(ctx context.Context, env *Env) error
}

// Step pairs a patch with the schema version it produces.
type Step struct {
	Version int
	Patch   Patch
}

// State is the state of a patch during a run.
type State uint8

// Patch states.
const (
	Unchecked State = iota
	Skipped
	Applying
	Applied
	Failed
)

var stateNames = [...]string{
	Unchecked: "unchecked",
	Skipped:   "skipped",
	Applying:  "applying",
	Applied:   "applied",
	Failed:    "failed",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// StepResult is the outcome of one step of a run.
type StepResult struct {
	Name     string
	Version  int
	State    State
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	// From is the stored version before the run, To the version after it.
	From, To int
	Steps    []StepResult
}

// Applied returns the names of the patches applied during the run.
func (r Report) Applied() []string {
	return r.names(Applied)
}

// Skipped returns the names of the patches found already applied.
func (r Report) Skipped() []string {
	return r.names(Skipped)
}

func (r Report) names(s State) []string {
	var names []string
	for _, step := range r.Steps {
		if step.State == s {
			names = append(names, step.Name)
		}
	}
	return names
}
