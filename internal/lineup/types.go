// Package lineup turns a listener's collected data into a tiered,
// multi-day festival lineup.
package lineup

import (
	"strings"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

type Tier string

const (
	Headliner  Tier = "headliner"
	Supporting Tier = "supporting"
	Discovery  Tier = "discovery"
)

// ScoredArtist is an artist with its score breakdown for one run. It is a
// value: stages that re-tier an artist produce a new one with WithTier.
type ScoredArtist struct {
	catalog.Artist `yaml:",inline"`

	FrequencyScore  float64 `yaml:"frequency_score" json:"frequencyScore"`
	RecencyScore    float64 `yaml:"recency_score" json:"recencyScore"`
	PopularityScore float64 `yaml:"popularity_score" json:"popularityScore"`
	GenreRelevance  float64 `yaml:"genre_relevance" json:"genreRelevance"`
	CompositeScore  float64 `yaml:"composite_score" json:"compositeScore"`
	Tier            Tier    `yaml:"tier" json:"tier"`
}

// WithTier returns a copy of a assigned to tier.
func (a ScoredArtist) WithTier(tier Tier) ScoredArtist {
	a.Tier = tier
	return a
}

// PrimaryGenre is the artist's first tag, lower-cased, or "unknown".
func (a ScoredArtist) PrimaryGenre() string {
	if len(a.Genres) == 0 {
		return "unknown"
	}
	return strings.ToLower(a.Genres[0])
}

type Day struct {
	Name       string         `yaml:"name" json:"name"`
	Date       string         `yaml:"date" json:"date"`
	Time       string         `yaml:"time" json:"time"`
	Theme      string         `yaml:"theme" json:"theme"`
	Headliner  *ScoredArtist  `yaml:"headliner" json:"headliner"`
	Supporting []ScoredArtist `yaml:"supporting" json:"supporting"`
	Discovery  []ScoredArtist `yaml:"discovery" json:"discovery"`
}

// Artists returns the headliner, if any, followed by supporting and
// discovery acts.
func (d Day) Artists() []ScoredArtist {
	var all []ScoredArtist
	if d.Headliner != nil {
		all = append(all, *d.Headliner)
	}
	all = append(all, d.Supporting...)
	return append(all, d.Discovery...)
}

// Strength is the sum of the day's composite scores.
func (d Day) Strength() float64 {
	var s float64
	for _, a := range d.Artists() {
		s += a.CompositeScore
	}
	return s
}

// GenreVariety counts the distinct tags among the first two tags of every
// artist playing the day.
func (d Day) GenreVariety() int {
	seen := make(map[string]struct{})
	for _, a := range d.Artists() {
		for i := 0; i < len(a.Genres) && i < 2; i++ {
			seen[strings.ToLower(a.Genres[i])] = struct{}{}
		}
	}
	return len(seen)
}

// Lineup is the result of one generation run.
type Lineup struct {
	UserName       string   `yaml:"user_name" json:"userName"`
	Days           []Day    `yaml:"days" json:"days"`
	DominantGenres []string `yaml:"dominant_genres" json:"dominantGenres"`
	TotalArtists   int      `yaml:"total_artists" json:"totalArtists"`
}
