package version_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/version"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	info := version.Info()

	assert.True(t, strings.HasPrefix(info, version.GetVersion()+" "), info)
	assert.Contains(t, info, version.GoVersion)
	assert.Contains(t, info, version.Platform)
	assert.NotEmpty(t, version.Revision)
}
