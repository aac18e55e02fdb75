package objective

import (
	"errors"
	"fmt"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/manifest"
)

// ErrVerificationFailed is returned by [Outcome.Err] when any objective or
// manifest failed.
var ErrVerificationFailed = errors.New("challenge verification failed")

// State is the lifecycle state of a single objective.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StatePassed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateRunning:
		return "Running"
	case StatePassed:
		return "Passed"
	case StateFailed:
		return "Failed"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Reason classifies a failed objective.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonFieldMissing means a required field was absent.
	ReasonFieldMissing
	// ReasonValueMismatch means a field held a different value.
	ReasonValueMismatch
	// ReasonPatternMismatch means a text field did not match an accepted form.
	ReasonPatternMismatch
	// ReasonPrecondition means a manifest the objective needs did not load.
	ReasonPrecondition
	// ReasonDependency means the objective is derived from others that failed.
	ReasonDependency
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonFieldMissing:
		return "FieldMissing"
	case ReasonValueMismatch:
		return "ValueMismatch"
	case ReasonPatternMismatch:
		return "PatternMismatch"
	case ReasonPrecondition:
		return "Precondition"
	case ReasonDependency:
		return "Dependency"
	}

	return fmt.Sprintf("Reason(%d)", int(r))
}

// Result is the immutable outcome of one objective.
type Result struct {
	// Name is a stable identifier, e.g. "self-heal".
	Name string
	// Description is the learner-facing objective title.
	Description string
	// Message explains the outcome, naming expected and found values on failure.
	Message string
	// Excerpt optionally holds the manifest lines the message refers to.
	Excerpt string
	// Details holds optional supporting lines, such as a diff.
	Details []string
	Reason  Reason
	Passed  bool
}

// State returns the terminal state of the result.
func (r Result) State() State {
	if r.Passed {
		return StatePassed
	}

	return StateFailed
}

// Pass returns a passing [Result].
func Pass(msg string) Result {
	return Result{Passed: true, Message: msg}
}

// Fail returns a failing [Result].
func Fail(reason Reason, msg string, details ...string) Result {
	return Result{Reason: reason, Message: msg, Details: details}
}

// Failf returns a failing [Result] with a formatted message.
func Failf(reason Reason, format string, args ...any) Result {
	return Fail(reason, fmt.Sprintf(format, args...))
}

// WithExcerpt returns a copy of r carrying excerpt.
func (r Result) WithExcerpt(excerpt string) Result {
	r.Excerpt = excerpt
	return r
}

// Outcome aggregates the results of a verification run.
type Outcome struct {
	Manifests []manifest.Loaded
	Results   []Result
	Passed    bool
}

// Failed returns the failed results, in order.
func (o *Outcome) Failed() []Result {
	var failed []Result

	for _, r := range o.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}

	return failed
}

// Err returns [ErrVerificationFailed] if the outcome did not pass.
func (o *Outcome) Err() error {
	if o.Passed {
		return nil
	}

	n := len(o.Failed())

	return fmt.Errorf("%w: %d of %d objectives failed", ErrVerificationFailed, n, len(o.Results))
}
