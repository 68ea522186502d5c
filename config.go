package tdv

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LinkWeights are the per-relation feature weights.
type LinkWeights struct {
	Weak    float64 `yaml:"link_weak" json:"link_weak"`
	Context float64 `yaml:"link_context" json:"link_context"`
	POS     float64 `yaml:"link_pos" json:"link_pos"`
	Etym    float64 `yaml:"link_etym" json:"link_etym"`
	Strong  float64 `yaml:"link_strong" json:"link_strong"`
	Hyp     float64 `yaml:"link_hyp" json:"link_hyp"`
	Hom     float64 `yaml:"link_hom" json:"link_hom"`
	Syn     float64 `yaml:"link_syn" json:"link_syn"`
	Transl  float64 `yaml:"link_transl" json:"link_transl"`
}

// Config holds everything the engine and the commands read at startup.
type Config struct {
	// Lang is the primary (source) language; translation joins start from it.
	Lang string `yaml:"lang"`
	// Languages lists the dictionary languages scanned, in order.
	Languages   []string    `yaml:"languages"`
	LinkWeights LinkWeights `yaml:"link_weights"`
	// LinkSearchDepth bounds graph expansion.
	LinkSearchDepth int `yaml:"link_search_depth"`
	// DictPath is the JSON dictionary.
	DictPath string `yaml:"wikt_db_path"`
	// SnapshotPath is an optional pre-built vector snapshot (.json, .db or .sqlite).
	SnapshotPath  string `yaml:"meaning_file_path"`
	HumanReadable bool   `yaml:"human_readable"`

	BuildWorkers  int `yaml:"build_workers"`
	TermCacheSize int `yaml:"term_cache_size"`
}

// Defaults.
const (
	DefaultLinkSearchDepth = 1
	DefaultTermCacheSize   = 4096
)

// DefaultLinkWeights returns a usable weight set.
func DefaultLinkWeights() LinkWeights {
	return LinkWeights{
		Weak:    1.0,
		Context: 0.5,
		POS:     0.5,
		Etym:    0.5,
		Strong:  2.0,
		Hyp:     1.5,
		Hom:     0.5,
		Syn:     2.0,
		Transl:  1.0,
	}
}

// DefaultConfig returns a single-language configuration with default weights.
func DefaultConfig(lang string) Config {
	return Config{
		Lang:            lang,
		Languages:       []string{lang},
		LinkWeights:     DefaultLinkWeights(),
		LinkSearchDepth: DefaultLinkSearchDepth,
		BuildWorkers:    runtime.NumCPU(),
		TermCacheSize:   DefaultTermCacheSize,
	}
}

// LoadConfig reads a YAML (or JSON) configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a configuration and fills unset fields with defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LinkWeights == (LinkWeights{}) {
		c.LinkWeights = DefaultLinkWeights()
	}
	if c.LinkSearchDepth == 0 {
		c.LinkSearchDepth = DefaultLinkSearchDepth
	}
	if c.Lang == "" && len(c.Languages) > 0 {
		c.Lang = c.Languages[0]
	}
	if len(c.Languages) == 0 && c.Lang != "" {
		c.Languages = []string{c.Lang}
	}
	if c.BuildWorkers <= 0 {
		c.BuildWorkers = runtime.NumCPU()
	}
	if c.TermCacheSize <= 0 {
		c.TermCacheSize = DefaultTermCacheSize
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("languages: at least one language is required"))
	}
	if c.LinkSearchDepth < 0 {
		errs = append(errs, fmt.Errorf("link_search_depth: must be positive, got %d", c.LinkSearchDepth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
