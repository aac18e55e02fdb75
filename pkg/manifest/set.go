package manifest

import (
	"errors"
	"path/filepath"
)

// Ref names a manifest a challenge reads.
type Ref struct {
	// Key identifies the manifest within a challenge, e.g. "rollout".
	Key string
	// Name is the human readable kind, e.g. "Rollout".
	Name string
	// Path is relative to the workspace directory.
	Path string
}

// Loaded is the outcome of loading a [Ref].
type Loaded struct {
	Manifest *Manifest
	Err      *LoadError
	Ref
}

// OK reports whether the manifest was loaded.
func (l Loaded) OK() bool {
	return l.Err == nil && l.Manifest != nil
}

// LoadAll loads every ref relative to dir, in order. Failures are recorded
// on the returned entries. Paths on the results stay relative to dir.
func LoadAll(dir string, refs []Ref) []Loaded {
	out := make([]Loaded, 0, len(refs))

	for _, ref := range refs {
		l := Loaded{Ref: ref}

		m, err := Load(filepath.Join(dir, ref.Path), ref.Name)
		if err != nil {
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				loadErr = &LoadError{Kind: KindReadError, Name: ref.Name, Path: ref.Path, Err: err}
			}

			loadErr.Path = ref.Path
			l.Err = loadErr
		} else {
			m.Path = ref.Path
			l.Manifest = m
		}

		out = append(out, l)
	}

	return out
}
