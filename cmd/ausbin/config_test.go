package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ausbin/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ausbin.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileConfig_EmptyPath(t *testing.T) {
	fc, err := loadFileConfig("")
	require.NoError(t, err)
	assert.Equal(t, 0, fc.Matcher.Threshold)
	assert.Equal(t, "", fc.Registry.BaseURL)
}

func TestLoadFileConfig_MissingFile(t *testing.T) {
	_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestMatcherOptions_FileValuesApplyWithoutFlags(t *testing.T) {
	path := writeConfig(t, `
[matcher]
threshold = 70
limit = 10
`)
	fc, err := loadFileConfig(path)
	require.NoError(t, err)

	m, err := match.NewMatcher(fc.matcherOptions(0, 0)...)
	require.NoError(t, err)
	assert.Equal(t, 70, m.Threshold())
	assert.Equal(t, 10, m.Limit())
}

func TestMatcherOptions_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[matcher]
threshold = 70
limit = 10
`)
	fc, err := loadFileConfig(path)
	require.NoError(t, err)

	m, err := match.NewMatcher(fc.matcherOptions(90, 5)...)
	require.NoError(t, err)
	assert.Equal(t, 90, m.Threshold())
	assert.Equal(t, 5, m.Limit())
}

func TestMatcherOptions_DefaultsWhenNothingSet(t *testing.T) {
	fc, err := loadFileConfig("")
	require.NoError(t, err)

	m, err := match.NewMatcher(fc.matcherOptions(0, 0)...)
	require.NoError(t, err)
	assert.Equal(t, match.DefaultThreshold, m.Threshold())
	assert.Equal(t, match.DefaultLimit, m.Limit())
}
