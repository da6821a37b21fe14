// Package config holds the tunable parameters of the search client and the
// preview server. Values come from defaults, then kosh-client.yaml, then
// KOSH_CLIENT_* environment variables (a .env file is honoured).
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/search"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "kosh-client.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KOSH_CLIENT_"

// Config contains all tunable client parameters
type Config struct {
	// Index acquisition
	IndexURL     string        `yaml:"indexURL"`     // Where the index is fetched from (default: /index.json)
	CacheVersion string        `yaml:"cacheVersion"` // Expected session stamp (default: 1.0)
	FetchTimeout time.Duration `yaml:"fetchTimeout"` // Index fetch timeout (default: 10s)

	// Native storage
	StatePath      string        `yaml:"statePath"`      // BoltDB file backing local/session storage
	StorageTimeout time.Duration `yaml:"storageTimeout"` // BoltDB open timeout (default: 1s)

	Search SearchConfig `yaml:"search"`
	Server ServerConfig `yaml:"server"`
}

// SearchConfig tunes the fuzzy matcher and the snippet window.
type SearchConfig struct {
	TitleWeight        float64 `yaml:"titleWeight"`        // default: 0.8
	ContentsWeight     float64 `yaml:"contentsWeight"`     // default: 0.5
	TagsWeight         float64 `yaml:"tagsWeight"`         // default: 0.3
	Threshold          float64 `yaml:"threshold"`          // 0 = exact, 1 = anything (default: 0.3)
	Location           int     `yaml:"location"`           // Expected match offset (default: 0)
	Distance           int     `yaml:"distance"`           // Proximity falloff (default: 100)
	MinMatchCharLength int     `yaml:"minMatchCharLength"` // default: 3
	SummaryInclude     int     `yaml:"summaryInclude"`     // Runes of context per side (default: 160)
}

// ServerConfig tunes the preview server.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             string        `yaml:"port"`
	Dir              string        `yaml:"dir"`              // Directory served (default: public)
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`  // default: 5s
	DebounceDuration time.Duration `yaml:"debounceDuration"` // Reload debounce (default: 300ms)
}

// Default returns the default configuration
func Default() *Config {
	opts := search.DefaultOptions()
	return &Config{
		IndexURL:     "/index.json",
		CacheVersion: "1.0",
		FetchTimeout: 10 * time.Second,

		StatePath:      ".kosh-client/state.db",
		StorageTimeout: 1 * time.Second,

		Search: SearchConfig{
			TitleWeight:        0.8,
			ContentsWeight:     0.5,
			TagsWeight:         0.3,
			Threshold:          opts.Threshold,
			Location:           opts.Location,
			Distance:           opts.Distance,
			MinMatchCharLength: opts.MinMatchCharLength,
			SummaryInclude:     search.SummaryInclude,
		},

		Server: ServerConfig{
			Host:             "localhost",
			Port:             "2604",
			Dir:              "public",
			ShutdownTimeout:  5 * time.Second,
			DebounceDuration: 300 * time.Millisecond,
		},
	}
}

// Load reads path (DefaultPath when empty) and applies environment overrides.
// A missing or unparsable file leaves the defaults in place.
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = Default()
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	cfg.validate()
	return cfg
}

func (c *Config) applyEnv() {
	envString("INDEX_URL", &c.IndexURL)
	envString("CACHE_VERSION", &c.CacheVersion)
	envString("STATE_PATH", &c.StatePath)
	envDuration("FETCH_TIMEOUT", &c.FetchTimeout)
	envFloat("THRESHOLD", &c.Search.Threshold)
	envInt("SUMMARY_INCLUDE", &c.Search.SummaryInclude)
	envString("HOST", &c.Server.Host)
	envString("PORT", &c.Server.Port)
	envString("DIR", &c.Server.Dir)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envFloat(name string, dst *float64) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// validate ensures configuration values are within reasonable bounds
func (c *Config) validate() {
	if c.IndexURL == "" {
		c.IndexURL = "/index.json"
	}
	if c.CacheVersion == "" {
		c.CacheVersion = "1.0"
	}

	// Timeouts
	if c.FetchTimeout < 1*time.Second {
		c.FetchTimeout = 1 * time.Second
	}
	if c.FetchTimeout > 2*time.Minute {
		c.FetchTimeout = 2 * time.Minute
	}
	if c.StorageTimeout < 100*time.Millisecond {
		c.StorageTimeout = 100 * time.Millisecond
	}

	// Search
	s := &c.Search
	if s.TitleWeight <= 0 {
		s.TitleWeight = 0.8
	}
	if s.ContentsWeight <= 0 {
		s.ContentsWeight = 0.5
	}
	if s.TagsWeight <= 0 {
		s.TagsWeight = 0.3
	}
	if s.Threshold < 0 {
		s.Threshold = 0
	}
	if s.Threshold > 1 {
		s.Threshold = 1
	}
	if s.Location < 0 {
		s.Location = 0
	}
	if s.Distance < 0 {
		s.Distance = 0
	}
	if s.MinMatchCharLength < 1 {
		s.MinMatchCharLength = 1
	}
	if s.SummaryInclude < 10 {
		s.SummaryInclude = 10
	}
	if s.SummaryInclude > 2000 {
		s.SummaryInclude = 2000
	}

	// Server
	if c.Server.Dir == "" {
		c.Server.Dir = "public"
	}
	if c.Server.ShutdownTimeout < 1*time.Second {
		c.Server.ShutdownTimeout = 1 * time.Second
	}
	if c.Server.ShutdownTimeout > 60*time.Second {
		c.Server.ShutdownTimeout = 60 * time.Second
	}
	if c.Server.DebounceDuration < 10*time.Millisecond {
		c.Server.DebounceDuration = 10 * time.Millisecond
	}
	if c.Server.DebounceDuration > 5*time.Second {
		c.Server.DebounceDuration = 5 * time.Second
	}
}

// Options converts the search settings into matcher options.
func (s SearchConfig) Options() search.Options {
	opts := search.DefaultOptions()
	opts.Threshold = s.Threshold
	opts.Location = s.Location
	opts.Distance = s.Distance
	opts.MinMatchCharLength = s.MinMatchCharLength
	for i := range opts.Keys {
		switch opts.Keys[i].Name {
		case models.FieldTitle:
			opts.Keys[i].Weight = s.TitleWeight
		case models.FieldContents:
			opts.Keys[i].Weight = s.ContentsWeight
		case models.FieldTags:
			opts.Keys[i].Weight = s.TagsWeight
		}
	}
	return opts
}
