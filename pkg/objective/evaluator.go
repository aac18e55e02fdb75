package objective

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/field"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/log"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/manifest"
)

// Input is what a [Check] sees when it runs.
type Input struct {
	manifests map[string]*manifest.Manifest
	// Previous holds the results of the checks that ran before this one.
	Previous []Result
}

// Manifest returns the loaded manifest for key, or nil.
func (in Input) Manifest(key string) *manifest.Manifest {
	return in.manifests[key]
}

// Lookup returns the value at path in the manifest for key.
func (in Input) Lookup(key, path string) field.Value {
	return in.Manifest(key).Lookup(path)
}

// Check is one objective of a challenge.
type Check struct {
	// Run evaluates the objective. It only runs when every manifest in
	// Requires loaded.
	Run func(ctx context.Context, in Input) Result
	// Name is a stable identifier.
	Name string
	// Description is the learner-facing objective title.
	Description string
	// Requires lists the keys of the manifests Run reads.
	Requires []string
}

// TransitionFunc observes objective state changes.
type TransitionFunc func(name string, from, to State)

// Evaluator runs checks in declaration order.
type Evaluator struct {
	tracer     trace.Tracer
	transition TransitionFunc
}

// EvaluatorOpt configures an [Evaluator].
type EvaluatorOpt func(*Evaluator)

// WithTransitionFunc registers fn to be called on every state change.
func WithTransitionFunc(fn TransitionFunc) EvaluatorOpt {
	return func(e *Evaluator) {
		e.transition = fn
	}
}

// NewEvaluator creates a new [Evaluator].
func NewEvaluator(opts ...EvaluatorOpt) *Evaluator {
	e := &Evaluator{
		tracer:     otel.Tracer("objective"),
		transition: func(string, State, State) {},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run evaluates checks against loaded and returns the aggregated [Outcome].
// It never stops early.
func (e *Evaluator) Run(ctx context.Context, loaded []manifest.Loaded, checks []Check) *Outcome {
	ctx, span := e.tracer.Start(ctx, "verify", trace.WithAttributes(
		attribute.Int("objectives", len(checks)),
	))
	defer span.End()

	outcome := &Outcome{
		Manifests: loaded,
		Results:   make([]Result, 0, len(checks)),
		Passed:    true,
	}

	available := map[string]*manifest.Manifest{}
	failures := map[string]*manifest.LoadError{}

	for _, l := range loaded {
		if l.OK() {
			available[l.Key] = l.Manifest
		} else {
			failures[l.Key] = l.Err
			outcome.Passed = false
		}
	}

	for _, c := range checks {
		r := e.runCheck(ctx, c, Input{
			manifests: available,
			Previous:  outcome.Results,
		}, failures)

		if !r.Passed {
			outcome.Passed = false
		}

		outcome.Results = append(outcome.Results, r)
	}

	if !outcome.Passed {
		span.SetStatus(codes.Error, "verification failed")
	}

	return outcome
}

func (e *Evaluator) runCheck(ctx context.Context, c Check, in Input, failures map[string]*manifest.LoadError) Result {
	ctx, span := e.tracer.Start(ctx, "objective", trace.WithAttributes(
		attribute.String("objective", c.Name),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(slog.String("objective", c.Name))

	e.transition(c.Name, StateNotStarted, StateRunning)

	start := time.Now()
	r := e.evaluate(ctx, c, in, failures)
	r.Name = c.Name
	r.Description = c.Description

	logger.DebugContext(ctx, "objective evaluated",
		slog.Bool("passed", r.Passed),
		slog.String("reason", r.Reason.String()),
		slog.Duration("duration", time.Since(start)),
	)

	if !r.Passed {
		span.SetStatus(codes.Error, r.Message)
	}

	e.transition(c.Name, StateRunning, r.State())

	return r
}

func (e *Evaluator) evaluate(ctx context.Context, c Check, in Input, failures map[string]*manifest.LoadError) (r Result) {
	for _, key := range c.Requires {
		if loadErr, ok := failures[key]; ok {
			return Fail(ReasonPrecondition, loadErr.Message())
		}

		if in.Manifest(key) == nil {
			return Failf(ReasonPrecondition, "manifest %q was not loaded", key)
		}
	}

	defer func() {
		if v := recover(); v != nil {
			log.WithContext(ctx).ErrorContext(ctx, "objective panicked",
				slog.String("objective", c.Name),
				slog.Any("panic", v),
			)

			r = Fail(ReasonNone, fmt.Sprintf("internal error while checking objective: %v", v))
		}
	}()

	return c.Run(ctx, in)
}
