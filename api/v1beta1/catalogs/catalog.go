// Package catalogs provides the embedded challenge Catalog.
//
// The catalog carries the metadata of every challenge the verifier knows:
// titles, documentation links and the manifests each challenge reads. The
// objectives themselves live in [github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge].
package catalogs

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/manifest"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o catalogs.v1beta1.json

// Level is the difficulty of a challenge.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

var (
	//go:embed catalog.yaml
	catalogYAML []byte

	ErrDuplicateID = errors.New("duplicate challenge id")

	// ValidKinds contains the valid kind values for catalogs.
	ValidKinds = []string{"Catalog"}

	// DefaultValidator validates catalogs against the schema reflected from
	// [Catalog].
	DefaultValidator = mustNewValidator()

	// Compile-time interface checks.
	_ v1beta1.Object = (*Catalog)(nil)
)

// Catalog lists the known challenges.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Catalog struct {
	Challenges       []*Challenge `json:"challenges" jsonschema:"required,minItems=1,title=Challenges"`
	v1beta1.TypeMeta `json:",inline"`
}

// Challenge describes one challenge variant.
type Challenge struct {
	// ID is the selector passed to the verifier, e.g. "01-echoes-lost-in-orbit_beginner".
	ID string `json:"id" jsonschema:"required,title=ID,pattern=^[0-9]{2}-[a-z0-9-]+_[a-z]+$"`
	// Adventure is the two digit adventure number.
	Adventure      string `json:"adventure" jsonschema:"required,title=Adventure,pattern=^[0-9]{2}$"`
	AdventureTitle string `json:"adventureTitle" jsonschema:"title=Adventure Title"`
	Level          Level  `json:"level" jsonschema:"required,title=Level,enum=beginner,enum=intermediate,enum=expert"`
	Title          string `json:"title" jsonschema:"required,title=Title"`
	// Docs links to the objective section of the challenge documentation.
	Docs      string      `json:"docs" jsonschema:"required,title=Docs,format=uri"`
	Manifests []*Manifest `json:"manifests" jsonschema:"required,minItems=1,title=Manifests"`
}

// Manifest is a file a challenge reads.
type Manifest struct {
	Key  string `json:"key" jsonschema:"required,title=Key,pattern=^[a-z][a-z0-9-]*$"`
	Name string `json:"name" jsonschema:"required,title=Name"`
	// Path is relative to the workspace root.
	Path string `json:"path" jsonschema:"required,title=Path"`
}

// Ref returns the [manifest.Ref] for m.
func (m *Manifest) Ref() manifest.Ref {
	return manifest.Ref{Key: m.Key, Name: m.Name, Path: m.Path}
}

// Refs returns the manifest refs of the challenge, in order.
func (c *Challenge) Refs() []manifest.Ref {
	refs := make([]manifest.Ref, 0, len(c.Manifests))
	for _, m := range c.Manifests {
		refs = append(refs, m.Ref())
	}

	return refs
}

func (c Catalog) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// Validate checks requirements the schema cannot express.
func (c *Catalog) Validate() error {
	seen := map[string]bool{}

	for _, ch := range c.Challenges {
		if seen[ch.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, ch.ID)
		}

		seen[ch.ID] = true
	}

	return nil
}

// Get returns the challenge with the given id.
func (c *Catalog) Get(id string) (*Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}

	return nil, false
}

// IDs returns the ids of all challenges, in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Challenges))
	for _, ch := range c.Challenges {
		ids = append(ids, ch.ID)
	}

	return ids
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse validates data against [DefaultValidator] and decodes it into a
// [Catalog].
func Parse(data []byte) (*Catalog, error) {
	ew := yaml.NewErrorWrapper(yaml.WithSource(data))

	var anyCatalog any

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&anyCatalog)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", ew.Wrap(err))
	}

	err = DefaultValidator.Validate(anyCatalog)
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", ew.Wrap(err))
	}

	c := &Catalog{}

	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", ew.Wrap(err))
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	return c, nil
}

// Schema returns the JSON schema for catalogs.
func Schema() ([]byte, error) {
	b, err := yaml.NewSchemaGenerator(&Catalog{}).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate catalog schema: %w", err)
	}

	return b, nil
}

func mustNewValidator() *yaml.Validator {
	v, err := yaml.NewValidatorFor("/catalogs.v1beta1.json", &Catalog{})
	if err != nil {
		panic(err)
	}

	return v
}
