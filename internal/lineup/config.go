package lineup

import (
	"errors"
	"fmt"
)

// Weights are the coefficients of the composite score. They are expected to
// sum to 1; that is left to the caller.
type Weights struct {
	Frequency      float64 `mapstructure:"frequency" yaml:"frequency" json:"frequency"`
	Recency        float64 `mapstructure:"recency" yaml:"recency" json:"recency"`
	Popularity     float64 `mapstructure:"popularity" yaml:"popularity" json:"popularity"`
	GenreRelevance float64 `mapstructure:"genre_relevance" yaml:"genre_relevance" json:"genreRelevance"`
}

type Thresholds struct {
	HeadlinerMinPopularity int `mapstructure:"headliner_min_popularity" yaml:"headliner_min_popularity" json:"headlinerMinPopularity"`
	HeadlinerCount         int `mapstructure:"headliner_count" yaml:"headliner_count" json:"headlinerCount"`
	SupportingCount        int `mapstructure:"supporting_count" yaml:"supporting_count" json:"supportingCount"`
	DiscoveryCount         int `mapstructure:"discovery_count" yaml:"discovery_count" json:"discoveryCount"`
}

type Days struct {
	Count            int `mapstructure:"count" yaml:"count" json:"count"`
	SupportingPerDay int `mapstructure:"supporting_per_day" yaml:"supporting_per_day" json:"supportingPerDay"`
	DiscoveryPerDay  int `mapstructure:"discovery_per_day" yaml:"discovery_per_day" json:"discoveryPerDay"`
}

// Config is read-only for the duration of a run.
type Config struct {
	Weights    Weights    `mapstructure:"weights" yaml:"weights" json:"weights"`
	Thresholds Thresholds `mapstructure:"thresholds" yaml:"thresholds" json:"thresholds"`
	Days       Days       `mapstructure:"days" yaml:"days" json:"days"`
}

// DefaultConfig returns the standard three-day lineup configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Frequency:      0.35,
			Recency:        0.2,
			Popularity:     0.25,
			GenreRelevance: 0.2,
		},
		Thresholds: Thresholds{
			HeadlinerMinPopularity: 60,
			HeadlinerCount:         3,
			SupportingCount:        12,
			DiscoveryCount:         15,
		},
		Days: Days{
			Count:            3,
			SupportingPerDay: 2,
			DiscoveryPerDay:  3,
		},
	}
}

var ErrInvalidConfig = errors.New("invalid lineup config")

// Validate rejects negative thresholds and day counts below one.
func (c Config) Validate() error {
	checks := []struct {
		name string
		v    int
		min  int
	}{
		{"headliner_min_popularity", c.Thresholds.HeadlinerMinPopularity, 0},
		{"headliner_count", c.Thresholds.HeadlinerCount, 0},
		{"supporting_count", c.Thresholds.SupportingCount, 0},
		{"discovery_count", c.Thresholds.DiscoveryCount, 0},
		{"days.count", c.Days.Count, 1},
		{"days.supporting_per_day", c.Days.SupportingPerDay, 0},
		{"days.discovery_per_day", c.Days.DiscoveryPerDay, 0},
	}
	for _, check := range checks {
		if check.v < check.min {
			return fmt.Errorf("%w: %s is %d, must be at least %d", ErrInvalidConfig, check.name, check.v, check.min)
		}
	}
	return nil
}
