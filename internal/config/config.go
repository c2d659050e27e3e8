package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/audi70r/commitdigest/internal/classify"
	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/fetch"
	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/store"
)

// envReplacer maps "window.days" to COMMITDIGEST_WINDOW_DAYS
var envReplacer = strings.NewReplacer(".", "_")

// Config holds application configuration
type Config struct {
	Archive  ArchiveConfig  `mapstructure:"archive" yaml:"archive"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Classify ClassifyConfig `mapstructure:"classify" yaml:"classify"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ArchiveConfig locates the monthly archive pages
type ArchiveConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`           // %s is replaced by "2006-January"
	Months   int    `mapstructure:"months" yaml:"months"`     // current month plus months-1 previous ones
	Timezone string `mapstructure:"timezone" yaml:"timezone"` // location of archive date headings
}

// FetchConfig controls downloads
type FetchConfig struct {
	Attempts int           `mapstructure:"attempts" yaml:"attempts"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Rate     float64       `mapstructure:"rate" yaml:"rate"` // requests per second
}

// WindowConfig is the aggregation window
type WindowConfig struct {
	Days         int    `mapstructure:"days" yaml:"days"`
	Translations string `mapstructure:"translations" yaml:"translations"`
}

// ClassifyConfig tunes subject classification
type ClassifyConfig struct {
	Grammars           []string `mapstructure:"grammars" yaml:"grammars"`
	DefaultBranch      string   `mapstructure:"default_branch" yaml:"default_branch"`
	NewThreshold       int      `mapstructure:"new_threshold" yaml:"new_threshold"`
	TranslationPattern string   `mapstructure:"translation_pattern" yaml:"translation_pattern"`
}

// ReportConfig limits and orders the rendered rankings
type ReportConfig struct {
	MaxAuthors   int    `mapstructure:"max_authors" yaml:"max_authors"`
	MaxProjects  int    `mapstructure:"max_projects" yaml:"max_projects"`
	ProjectOrder string `mapstructure:"project_order" yaml:"project_order"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			URL:      "https://mail.gnome.org/archives/commits-list/%s/date.html",
			Months:   2,
			Timezone: "UTC",
		},
		Fetch: FetchConfig{
			Attempts: 3,
			Timeout:  30 * time.Second,
			Rate:     2,
		},
		Window: WindowConfig{
			Days:         7,
			Translations: string(store.TranslationsInclude),
		},
		Classify: ClassifyConfig{
			Grammars:           []string{classify.GrammarBracketed, classify.GrammarLegacy},
			DefaultBranch:      classify.DefaultBranch,
			NewThreshold:       stats.DefaultNewThreshold,
			TranslationPattern: classify.DefaultTranslationPattern,
		},
		Report: ReportConfig{
			MaxAuthors:   10,
			MaxProjects:  10,
			ProjectOrder: string(stats.OrderRecent),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from the given file, or from commitdigest.yaml in
// the working directory or ~/.commitdigest. A missing file is not an error.
// Environment variables prefixed COMMITDIGEST_ override file values.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix("COMMITDIGEST")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("commitdigest")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".commitdigest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("archive.url", cfg.Archive.URL)
	v.SetDefault("archive.months", cfg.Archive.Months)
	v.SetDefault("archive.timezone", cfg.Archive.Timezone)
	v.SetDefault("fetch.attempts", cfg.Fetch.Attempts)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.rate", cfg.Fetch.Rate)
	v.SetDefault("window.days", cfg.Window.Days)
	v.SetDefault("window.translations", cfg.Window.Translations)
	v.SetDefault("classify.grammars", cfg.Classify.Grammars)
	v.SetDefault("classify.default_branch", cfg.Classify.DefaultBranch)
	v.SetDefault("classify.new_threshold", cfg.Classify.NewThreshold)
	v.SetDefault("classify.translation_pattern", cfg.Classify.TranslationPattern)
	v.SetDefault("report.max_authors", cfg.Report.MaxAuthors)
	v.SetDefault("report.max_projects", cfg.Report.MaxProjects)
	v.SetDefault("report.project_order", cfg.Report.ProjectOrder)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Validate fails fast on values that would otherwise surface mid-run
func (c *Config) Validate() error {
	if _, err := c.AggregationWindow(); err != nil {
		return err
	}
	if err := stats.ProjectOrder(c.Report.ProjectOrder).Validate(); err != nil {
		return err
	}
	if _, err := classify.New(c.ClassifierOptions()); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1, got %d", c.Fetch.Attempts)
	}
	if c.Archive.Months < 1 {
		return fmt.Errorf("archive.months must be at least 1, got %d", c.Archive.Months)
	}
	return nil
}

// AggregationWindow converts the window section into a store.Window
func (c *Config) AggregationWindow() (store.Window, error) {
	mode, err := store.ParseTranslationMode(c.Window.Translations)
	if err != nil {
		return store.Window{}, err
	}
	w := store.Window{Days: c.Window.Days, Translations: mode}
	if err := w.Validate(); err != nil {
		return store.Window{}, err
	}
	return w, nil
}

// Location returns the archive timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Archive.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Archive.Timezone)
	if err != nil {
		return nil, fmt.Errorf("archive.timezone: %w", err)
	}
	return loc, nil
}

// ClassifierOptions returns the classifier section as classify.Options
func (c *Config) ClassifierOptions() classify.Options {
	return classify.Options{
		Grammars:           c.Classify.Grammars,
		DefaultBranch:      c.Classify.DefaultBranch,
		TranslationPattern: c.Classify.TranslationPattern,
	}
}

// PipelineOptions assembles everything the digest pipeline needs
func (c *Config) PipelineOptions() (digest.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return digest.Options{}, err
	}
	return digest.Options{
		Classifier: c.ClassifierOptions(),
		Stats: stats.Options{
			NewThreshold: c.Classify.NewThreshold,
			ProjectOrder: stats.ProjectOrder(c.Report.ProjectOrder),
			Timezone:     loc,
		},
		Location: loc,
	}, nil
}

// FetchOptions returns the fetch section as fetch.Options
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Attempts: c.Fetch.Attempts,
		Timeout:  c.Fetch.Timeout,
		Rate:     c.Fetch.Rate,
	}
}

// Sources returns where a run reads its pages from
func (c *Config) Sources(files []string) fetch.Sources {
	return fetch.Sources{
		Files:    files,
		Template: c.Archive.URL,
		Months:   c.Archive.Months,
	}
}

// YAML renders the effective configuration
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
