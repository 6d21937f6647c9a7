package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

const fullConfig = `
input:
  path: data/ratings.csv
  side_a_column: user_id
  side_b_column: item_id
  has_header: false
search:
  thresholds: [1, 5, 10]
  resolutions: [0.5, 1.0, 2.0]
  debug: true
  workers: 4
  seed: 42
  component_log_level: error
log:
  level: debug
`

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "data/ratings.csv", cfg.Input.Path)
	assert.False(t, cfg.Header())
	assert.Equal(t, []int{1, 5, 10}, cfg.Search.Thresholds)
	assert.Equal(t, []float64{0.5, 1.0, 2.0}, cfg.Search.Resolutions)
	require.NotNil(t, cfg.Search.Seed)
	assert.Equal(t, int64(42), *cfg.Search.Seed)
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())

	opts := cfg.SearchOptions(nil, nil)
	assert.Equal(t, "user_id", opts.SideAKey)
	assert.Equal(t, "item_id", opts.SideBKey)
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.Debug)
	assert.Equal(t, logging.ErrorLevel, opts.ComponentLevel)
	assert.NoError(t, opts.Validate())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
input:
  path: edges.csv
  side_a_column: user
  side_b_column: item
search:
  thresholds: [2]
`))
	require.NoError(t, err)

	assert.True(t, cfg.Header())
	assert.Equal(t, []float64{1.0}, cfg.Search.Resolutions)
	assert.Equal(t, 1, cfg.Search.Workers)
	assert.Nil(t, cfg.Search.Seed)
	assert.Equal(t, logging.InfoLevel, cfg.LogLevel())
	assert.Equal(t, logging.WarnLevel, cfg.SearchOptions(nil, nil).ComponentLevel)
}

func TestParse_Invalid(t *testing.T) {
	base := "input:\n  path: edges.csv\n  side_a_column: user\n  side_b_column: item\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing thresholds", base, "Thresholds"},
		{"missing path", "input:\n  side_a_column: a\n  side_b_column: b\nsearch:\n  thresholds: [1]\n", "Path"},
		{"same columns", "input:\n  path: x\n  side_a_column: a\n  side_b_column: a\nsearch:\n  thresholds: [1]\n", "must differ"},
		{"negative threshold", base + "search:\n  thresholds: [-1]\n", "Thresholds[0]"},
		{"zero resolution", base + "search:\n  thresholds: [1]\n  resolutions: [0]\n", "Resolutions[0]"},
		{"duplicate resolution", base + "search:\n  thresholds: [1]\n  resolutions: [1, 1]\n", "unique"},
		{"negative workers", base + "search:\n  thresholds: [1]\n  workers: -2\n", "search.workers: value -2 must be positive"},
		{"bad log level", base + "search:\n  thresholds: [1]\nlog:\n  level: loud\n", "log.level"},
		{"unknown field", base + "search:\n  thresholds: [1]\n  thresholdz: [2]\n", "thresholdz"},
		{"not yaml", "input: [", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Search.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
