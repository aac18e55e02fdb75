package catalogs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1/catalogs"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/yaml"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := catalogs.Default()
	require.NoError(t, err)

	assert.Equal(t, v1beta1.APIVersion, c.GetAPIVersion())
	assert.Equal(t, "Catalog", c.GetKind())
	assert.Equal(t, []string{
		"01-echoes-lost-in-orbit_beginner",
		"01-echoes-lost-in-orbit_intermediate",
	}, c.IDs())

	beginner, ok := c.Get("01-echoes-lost-in-orbit_beginner")
	require.True(t, ok)
	assert.Equal(t, catalogs.LevelBeginner, beginner.Level)
	assert.Equal(t, "Broken Echoes", beginner.Title)
	require.Len(t, beginner.Refs(), 1)
	assert.Equal(t, "appset", beginner.Refs()[0].Key)

	intermediate, ok := c.Get("01-echoes-lost-in-orbit_intermediate")
	require.True(t, ok)
	assert.Equal(t, "The Silent Canary", intermediate.Title)

	refs := intermediate.Refs()
	require.Len(t, refs, 2)
	assert.Equal(t, "Rollout", refs[0].Name)
	assert.Equal(t,
		"adventures/01-echoes-lost-in-orbit/intermediate/manifests/base/analysis-template.yaml",
		refs[1].Path,
	)

	_, ok = c.Get("02-unknown_beginner")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	t.Parallel()

	const challenge = `  - id: 01-echoes-lost-in-orbit_beginner
    adventure: "01"
    level: beginner
    title: Broken Echoes
    docs: https://example.com/docs
    manifests:
      - key: appset
        name: ApplicationSet
        path: appset.yaml
`

	tcs := map[string]struct {
		input   string
		wantErr string
	}{
		"valid": {
			input: "apiVersion: " + v1beta1.APIVersion + "\nkind: Catalog\nchallenges:\n" + challenge,
		},
		"wrong kind": {
			input:   "apiVersion: " + v1beta1.APIVersion + "\nkind: Configuration\nchallenges:\n" + challenge,
			wantErr: "validate catalog",
		},
		"wrong api version": {
			input:   "apiVersion: v1\nkind: Catalog\nchallenges:\n" + challenge,
			wantErr: "validate catalog",
		},
		"no challenges": {
			input:   "apiVersion: " + v1beta1.APIVersion + "\nkind: Catalog\nchallenges: []\n",
			wantErr: "validate catalog",
		},
		"bad level": {
			input: "apiVersion: " + v1beta1.APIVersion + "\nkind: Catalog\nchallenges:\n" +
				`  - id: 01-a_b
    adventure: "01"
    level: legendary
    title: T
    docs: https://example.com
    manifests:
      - {key: a, name: A, path: a.yaml}
`,
			wantErr: "validate catalog",
		},
		"duplicate id": {
			input:   "apiVersion: " + v1beta1.APIVersion + "\nkind: Catalog\nchallenges:\n" + challenge + challenge,
			wantErr: "duplicate challenge id",
		},
		"invalid yaml": {
			input:   "apiVersion: [",
			wantErr: "decode catalog",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := catalogs.Parse([]byte(tc.input))
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, c)

				return
			}

			require.NoError(t, err)
			require.Len(t, c.Challenges, 1)
			assert.Equal(t, "appset.yaml", c.Challenges[0].Manifests[0].Path)
		})
	}
}

func TestParse_ValidationErrorPath(t *testing.T) {
	t.Parallel()

	input := "apiVersion: " + v1beta1.APIVersion + `
kind: Catalog
challenges:
  - id: 01-a_b
    adventure: "1"
    level: beginner
    title: T
    docs: https://example.com
    manifests:
      - {key: a, name: A, path: a.yaml}
`

	_, err := catalogs.Parse([]byte(input))
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	require.NotNil(t, yamlErr.Path)
	assert.Equal(t, "$.challenges[0].adventure", yamlErr.Path.String())
	assert.Contains(t, yamlErr.Annotate(false), `adventure: "1"`)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := catalogs.Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(b, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "apiVersion")
	assert.Contains(t, props, "kind")
	assert.Contains(t, props, "challenges")
	assert.ElementsMatch(t, []any{"challenges", "apiVersion", "kind"}, schema["required"])
}
