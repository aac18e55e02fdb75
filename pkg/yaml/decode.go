package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// ErrEmptyDocument is returned when the input holds no YAML document.
var ErrEmptyDocument = errors.New("empty document")

// Decoder reads YAML documents one at a time. Duplicate mapping keys are
// syntax errors.
type Decoder struct {
	d *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r),
	}
}

// Decode decodes the next document into v. Syntax errors are returned as
// [*Error] values that keep the offending token, and a stream without any
// document yields [ErrEmptyDocument].
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return ErrEmptyDocument
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		//nolint:err113 // Message only, the position is carried by the token.
		return NewError(errors.New(yamlErr.GetMessage()), WithToken(yamlErr.GetToken()))
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
