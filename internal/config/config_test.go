package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commitdigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	w, err := cfg.AggregationWindow()
	require.NoError(t, err)
	assert.Equal(t, store.Window{Days: 7, Translations: store.TranslationsInclude}, w)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
window:
  days: 14
  translations: exclude
classify:
  default_branch: trunk
  grammars: [legacy]
fetch:
  timeout: 5s
report:
  project_order: count
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 14, cfg.Window.Days)
	assert.Equal(t, "exclude", cfg.Window.Translations)
	assert.Equal(t, "trunk", cfg.Classify.DefaultBranch)
	assert.Equal(t, []string{"legacy"}, cfg.Classify.Grammars)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "count", cfg.Report.ProjectOrder)

	// untouched keys keep their defaults
	assert.Equal(t, 3, cfg.Fetch.Attempts)
	assert.Equal(t, 10, cfg.Report.MaxAuthors)

	opts, err := cfg.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, stats.OrderCount, opts.Stats.ProjectOrder)
	assert.Equal(t, "trunk", opts.Classifier.DefaultBranch)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COMMITDIGEST_WINDOW_DAYS", "30")

	cfg, err := Load(writeConfig(t, "window:\n  days: 14\n"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Window.Days)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"bad translation mode", func(c *Config) { c.Window.Translations = "sometimes" }, store.ErrInvalidTranslationMode},
		{"zero days", func(c *Config) { c.Window.Days = 0 }, store.ErrInvalidWindow},
		{"unknown grammar", func(c *Config) { c.Classify.Grammars = []string{"cvs"} }, nil},
		{"broken pattern", func(c *Config) { c.Classify.TranslationPattern = "(" }, nil},
		{"unknown order", func(c *Config) { c.Report.ProjectOrder = "loudest" }, nil},
		{"unknown timezone", func(c *Config) { c.Archive.Timezone = "Mars/Olympus" }, nil},
		{"no attempts", func(c *Config) { c.Fetch.Attempts = 0 }, nil},
		{"no months", func(c *Config) { c.Archive.Months = 0 }, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, 7, back.Window.Days)
	assert.Contains(t, string(out), "timeout: 30s")
}
