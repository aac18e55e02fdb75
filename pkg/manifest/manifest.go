package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"reflect"

	"github.com/dustin/go-humanize"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/field"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/yaml"
)

// Manifest is a decoded YAML document. It is read-only once loaded.
type Manifest struct {
	// Tree is the decoded document: a mapping, sequence or scalar.
	Tree   any
	Name   string
	Path   string
	Source []byte
}

// Load reads the file at path and decodes its first YAML document. The name
// is the human readable kind of the manifest, e.g. "Rollout".
func Load(path, name string) (*Manifest, error) {
	logger := slog.With(
		slog.String("manifest", name),
		slog.String("path", path),
	)

	data, err := api.ReadFile(path)
	if err != nil {
		kind := KindReadError
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}

		logger.Debug("read manifest", slog.Any("err", err))

		return nil, &LoadError{Kind: kind, Name: name, Path: path, Err: err}
	}

	m, err := Parse(data, name)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}

		logger.Debug("parse manifest", slog.Any("err", err))

		return nil, err
	}

	m.Path = path

	logger.Debug("loaded manifest",
		slog.String("size", humanize.Bytes(uint64(len(data)))),
		slog.String("kind", m.Kind()),
	)

	return m, nil
}

// Parse decodes data as a manifest named name. The data must hold exactly
// one document, and duplicate mapping keys are rejected.
func Parse(data []byte, name string) (*Manifest, error) {
	ew := yaml.NewErrorWrapper(yaml.WithSource(data))
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var tree any

	err := dec.Decode(&tree)
	if errors.Is(err, yaml.ErrEmptyDocument) {
		return nil, &LoadError{Kind: KindEmptyDocument, Name: name}
	}

	if err != nil {
		return nil, &LoadError{Kind: KindParseError, Name: name, Err: ew.Wrap(err)}
	}

	var next any

	// Trailing null documents decode to nil and are ignored.
	err = dec.Decode(&next)
	switch {
	case err == nil && next != nil:
		return nil, &LoadError{Kind: KindParseError, Name: name, Err: ErrMultipleDocuments}
	case err != nil && !errors.Is(err, yaml.ErrEmptyDocument):
		return nil, &LoadError{Kind: KindParseError, Name: name, Err: ew.Wrap(err)}
	}

	if isEmpty(tree) {
		return nil, &LoadError{Kind: KindEmptyDocument, Name: name}
	}

	return &Manifest{
		Tree:   tree,
		Name:   name,
		Source: data,
	}, nil
}

// isEmpty reports whether a decoded document is null or a zero scalar such
// as "", false or 0. Empty mappings and sequences are documents.
func isEmpty(tree any) bool {
	if tree == nil {
		return true
	}

	rv := reflect.ValueOf(tree)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return false
	default:
		return rv.IsZero()
	}
}

// Lookup returns the value at path, e.g. `spec.template.metadata.name`.
func (m *Manifest) Lookup(path string) field.Value {
	if m == nil {
		return field.Absent(path)
	}

	return field.Extract(m.Tree, path)
}

// APIVersion returns the apiVersion of the manifest, or an empty string.
func (m *Manifest) APIVersion() string {
	s, _ := m.Lookup("apiVersion").String()
	return s
}

// Kind returns the kind of the manifest, or an empty string.
func (m *Manifest) Kind() string {
	s, _ := m.Lookup("kind").String()
	return s
}

// Excerpt renders the source lines around the node at path. It returns an
// empty string when the path does not resolve in the source.
func (m *Manifest) Excerpt(path string, colored bool) string {
	if m == nil || len(m.Source) == 0 {
		return ""
	}

	p, err := field.ParsePath(path)
	if err != nil {
		return ""
	}

	pb := yaml.NewPathBuilder().Root()

	for _, seg := range p {
		if seg.IsKey {
			pb = pb.Child(seg.Key)
		} else {
			pb = pb.Index(uint(seg.Index)) //nolint:gosec // G115: ParsePath rejects negative indexes.
		}
	}

	//nolint:err113 // Only used to carry the position.
	e := yaml.NewError(errors.New(path), yaml.WithPath(pb.Build()), yaml.WithSource(m.Source))

	return e.Annotate(colored)
}
