package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicu/typemockr/entity"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Equal(t, entity.SupportedVersions, info.GraphFormat)
}

func TestShortAndString(t *testing.T) {
	info := Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", GraphFormat: ">= 1.0.0, < 2.0.0"}
	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "typemockr v1.2.0 (commit 0123456, built 2026-01-02, graph format >= 1.0.0, < 2.0.0)", info.String())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
