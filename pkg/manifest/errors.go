package manifest

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("manifest not found")
	ErrRead          = errors.New("read manifest")
	ErrParse         = errors.New("parse manifest")
	ErrEmptyDocument = errors.New("empty manifest")

	// ErrMultipleDocuments is the cause of a [KindParseError] for a stream
	// holding more than one document.
	ErrMultipleDocuments = errors.New("expected a single document in the stream, but found more")
)

// Kind classifies a [LoadError].
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindReadError
	KindParseError
	KindEmptyDocument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindReadError:
		return "ReadError"
	case KindParseError:
		return "ParseError"
	case KindEmptyDocument:
		return "EmptyDocument"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindReadError:
		return ErrRead
	case KindParseError:
		return ErrParse
	case KindEmptyDocument:
		return ErrEmptyDocument
	}

	return nil
}

// LoadError describes why a manifest could not be loaded.
type LoadError struct {
	Err  error
	Name string
	Path string
	Kind Kind
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Name, e.Path, e.Kind.sentinel())
	}

	return fmt.Sprintf("%s %s: %v: %v", e.Name, e.Path, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// Message returns the learner-facing description of the failure.
func (e *LoadError) Message() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s manifest not found at: %s", e.Name, e.Path)
	case KindReadError:
		return fmt.Sprintf("Failed to read %s file: %v", e.Name, e.Err)
	case KindParseError:
		return fmt.Sprintf("Failed to parse YAML: %v", e.Err)
	case KindEmptyDocument:
		return e.Name + " YAML is empty or invalid"
	}

	return e.Error()
}
