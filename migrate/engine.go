package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/schema"
	"github.com/syssam/plandb/tables"
)

// Engine applies an ordered list of steps.
type Engine struct {
	env      *Env
	steps    []Step
	store    *VersionStore
	log      *slog.Logger
	observer func(StepResult)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger of the engine and of the patch environment.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers a function called on every state change of a step.
func WithObserver(fn func(StepResult)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// NewEngine returns an Engine running steps in the given order. Versions
// must be positive and strictly ascending; names must be unique.
func NewEngine(drv *sql.Driver, reg *schema.Registry, steps []Step, opts ...Option) (*Engine, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	e := &Engine{
		steps: append([]Step(nil), steps...),
		store: NewVersionStore(drv),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.env = &Env{
		Driver:    drv,
		Registry:  reg,
		Inspector: sqlschema.NewInspector(drv),
		Log:       e.log,
	}
	return e, nil
}

func validateSteps(steps []Step) error {
	names := make(map[string]bool, len(steps))
	last := 0
	for i, s := range steps {
		if s.Patch == nil {
			return fmt.Errorf("%w: step %d has no patch", ErrInvalidSteps, i)
		}
		name := s.Patch.Name()
		switch {
		case name == "":
			return fmt.Errorf("%w: step %d has no name", ErrInvalidSteps, i)
		case names[name]:
			return fmt.Errorf("%w: duplicate patch %s", ErrInvalidSteps, name)
		case s.Version <= last:
			return fmt.Errorf("%w: patch %s has version %d, expected more than %d", ErrInvalidSteps, name, s.Version, last)
		}
		names[name] = true
		last = s.Version
	}
	return nil
}

// Latest returns the version of the last step, 0 without steps.
func (e *Engine) Latest() int {
	if len(e.steps) == 0 {
		return 0
	}
	return e.steps[len(e.steps)-1].Version
}

// Env returns the environment handed to patches.
func (e *Engine) Env() *Env {
	return e.env
}

// Run applies every step above the stored version, in order. It stops at
// the first failing step and returns a *PatchError; the version of every
// step completed before it stays persisted.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	if err := sqlschema.CreateTable(ctx, e.env.Driver, e.env.Dialect(), tables.VersionDefinition()); err != nil {
		return Report{}, fmt.Errorf("migrate: create version table: %w", err)
	}
	current, err := e.store.Get(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{From: current, To: current}
	if current > e.Latest() {
		e.log.WarnContext(ctx, "database schema is newer than the known patches", "version", current, "latest", e.Latest())
		return report, nil
	}
	for _, s := range e.steps {
		if s.Version <= current {
			continue
		}
		res, err := e.step(ctx, s)
		report.Steps = append(report.Steps, res)
		if err != nil {
			return report, err
		}
		if err := e.store.Set(ctx, s.Version); err != nil {
			return report, NewPatchError(s.Patch.Name(), s.Version, err)
		}
		report.To = s.Version
	}
	if len(report.Steps) > 0 {
		e.log.InfoContext(ctx, "schema is up to date", "from", report.From, "to", report.To, "applied", len(report.Applied()))
	}
	return report, nil
}

func (e *Engine) step(ctx context.Context, s Step) (StepResult, error) {
	name := s.Patch.Name()
	start := time.Now()
	res := StepResult{Name: name, Version: s.Version, State: Unchecked}
	e.notify(res)
	fail := func(err error) (StepResult, error) {
		res.State = Failed
		res.Duration = time.Since(start)
		e.notify(res)
		e.log.ErrorContext(ctx, "patch failed", "patch", name, "version", s.Version, "error", err)
		return res, NewPatchError(name, s.Version, err)
	}

	applied, err := s.Patch.IsApplied(ctx, e.env)
	if err != nil {
		return fail(fmt.Errorf("check: %w", err))
	}
	if applied {
		res.State = Skipped
		res.Duration = time.Since(start)
		e.notify(res)
		e.log.DebugContext(ctx, "patch already applied", "patch", name, "version", s.Version)
		return res, nil
	}

	res.State = Applying
	e.notify(res)
	e.log.InfoContext(ctx, "applying patch", "patch", name, "version", s.Version)
	if err := s.Patch.Apply(ctx, e.env); err != nil {
		return fail(err)
	}
	applied, err = s.Patch.IsApplied(ctx, e.env)
	if err != nil {
		return fail(fmt.Errorf("check after apply: %w", err))
	}
	if !applied {
		return fail(ErrNotApplied)
	}
	res.State = Applied
	res.Duration = time.Since(start)
	e.notify(res)
	e.log.InfoContext(ctx, "patch applied", "patch", name, "version", s.Version, "duration", res.Duration)
	return res, nil
}

func (e *Engine) notify(res StepResult) {
	if e.observer != nil {
		e.observer(res)
	}
}
