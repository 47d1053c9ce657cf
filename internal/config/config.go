package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the comparison tuning surface. Every knob has a default; a YAML
// file overrides only the keys it sets.
type Config struct {
	FuzzyThreshold             float64  `yaml:"fuzzy_threshold"`
	NumericAbsoluteTolerance   float64  `yaml:"numeric_absolute_tolerance"`
	NumericRelativeTolerance   float64  `yaml:"numeric_relative_tolerance"`
	ListItemMatchMinSimilarity float64  `yaml:"list_item_match_min_similarity"`
	DateFormats                []string `yaml:"date_formats"`
}

func Default() Config {
	return Config{
		FuzzyThreshold:             0.80,
		NumericAbsoluteTolerance:   0.01,
		NumericRelativeTolerance:   0.01,
		ListItemMatchMinSimilarity: 0.60,
		DateFormats:                []string{"2006-01-02"},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects thresholds outside [0,1] and negative tolerances. It runs
// at construction so a bad config never reaches an evaluation.
func (c Config) Validate() error {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold %v outside [0,1]", c.FuzzyThreshold)
	}
	if c.ListItemMatchMinSimilarity < 0 || c.ListItemMatchMinSimilarity > 1 {
		return fmt.Errorf("list_item_match_min_similarity %v outside [0,1]", c.ListItemMatchMinSimilarity)
	}
	if c.NumericAbsoluteTolerance < 0 {
		return fmt.Errorf("numeric_absolute_tolerance %v is negative", c.NumericAbsoluteTolerance)
	}
	if c.NumericRelativeTolerance < 0 {
		return fmt.Errorf("numeric_relative_tolerance %v is negative", c.NumericRelativeTolerance)
	}
	if len(c.DateFormats) == 0 {
		return fmt.Errorf("date_formats must list at least one format")
	}
	for _, f := range c.DateFormats {
		if f == "" {
			return fmt.Errorf("date_formats contains an empty format")
		}
	}
	return nil
}
