package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1/catalogs"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/log"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/manifest"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

var (
	ErrNotInCatalog = errors.New("challenge not in catalog")

	defaultCatalog = sync.OnceValues(catalogs.Default)
)

// Challenge is a [Variant] together with its catalog metadata.
type Challenge struct {
	*catalogs.Challenge
	checks  []objective.Check
	Variant Variant
}

// Get returns the [Challenge] for v, using the embedded catalog.
func Get(v Variant) (*Challenge, error) {
	c, err := defaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return FromCatalog(c, v)
}

// FromCatalog returns the [Challenge] for v, using the metadata in c.
func FromCatalog(c *catalogs.Catalog, v Variant) (*Challenge, error) {
	d, ok := definitions[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChallenge, v)
	}

	meta, ok := c.Get(d.id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotInCatalog, d.id)
	}

	return &Challenge{
		Challenge: meta,
		Variant:   v,
		checks:    d.checks(),
	}, nil
}

// Checks returns the objectives of the challenge, in evaluation order.
func (c *Challenge) Checks() []objective.Check {
	return c.checks
}

// Paths returns the manifest paths of the challenge joined with dir.
func (c *Challenge) Paths(dir string) []string {
	paths := make([]string, 0, len(c.Manifests))
	for _, m := range c.Manifests {
		paths = append(paths, filepath.Join(dir, m.Path))
	}

	return paths
}

// Verify loads the manifests of the challenge from dir and evaluates every
// objective against them.
func (c *Challenge) Verify(ctx context.Context, dir string, opts ...objective.EvaluatorOpt) *objective.Outcome {
	logger := log.WithContext(ctx).With(slog.String("challenge", c.ID))
	logger.DebugContext(ctx, "verify challenge",
		slog.String("dir", dir),
		slog.Int("manifests", len(c.Manifests)),
		slog.Int("objectives", len(c.checks)),
	)

	loaded := manifest.LoadAll(dir, c.Refs())

	outcome := objective.NewEvaluator(opts...).Run(ctx, loaded, c.checks)

	logger.DebugContext(ctx, "challenge verified",
		slog.Bool("passed", outcome.Passed),
		slog.Int("failed", len(outcome.Failed())),
	)

	return outcome
}
