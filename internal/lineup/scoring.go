package lineup

import (
	"math"
	"sort"
	"strings"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

// windowWeights weight a window's position score by how recent it is.
var windowWeights = map[catalog.Window]float64{
	catalog.Short:  0.5,
	catalog.Medium: 0.3,
	catalog.Long:   0.2,
}

// Scorer computes artist scores against one collection. Position lookups
// are indexed once per Scorer.
type Scorer struct {
	data    *catalog.Collection
	profile genre.Profile
	cfg     Config

	positions map[catalog.Window]map[string]int
}

func NewScorer(data *catalog.Collection, profile genre.Profile, cfg Config) *Scorer {
	s := &Scorer{
		data:      data,
		profile:   profile,
		cfg:       cfg,
		positions: make(map[catalog.Window]map[string]int, len(catalog.Windows)),
	}
	for _, w := range catalog.Windows {
		artists := data.TopArtists.Get(w)
		idx := make(map[string]int, len(artists))
		for i, a := range artists {
			if _, ok := idx[a.ID]; !ok {
				idx[a.ID] = i
			}
		}
		s.positions[w] = idx
	}
	return s
}

// Frequency scores how high, and in how many windows, the artist ranks.
func (s *Scorer) Frequency(artistID string) float64 {
	var score float64
	appearances := 0
	for _, w := range catalog.Windows {
		i, ok := s.positions[w][artistID]
		if !ok {
			continue
		}
		n := float64(len(s.data.TopArtists.Get(w)))
		score += (1 - float64(i)/n) * windowWeights[w]
		appearances++
	}
	if appearances > 1 {
		score *= 1 + float64(appearances)*0.1
	}
	return math.Min(score, 1)
}

// Recency saturates at ten recent plays.
func (s *Scorer) Recency(artistID string) float64 {
	if !s.data.Recent.Has(artistID) {
		return 0
	}
	return math.Min(float64(s.data.Recent.PlayCounts[artistID])/10, 1)
}

// GenreRelevance rewards tags that match the dominant genres: 0.3 for an
// exact match plus 0.1 per partial match. Untagged artists get 0.3.
func (s *Scorer) GenreRelevance(artist catalog.Artist) float64 {
	if len(artist.Genres) == 0 {
		return 0.3
	}
	var relevance float64
	for _, tag := range artist.Genres {
		normalized := strings.ToLower(tag)
		if s.profile.IsDominant(normalized) {
			relevance += 0.3
		}
		relevance += 0.1 * float64(s.profile.PartialMatches(normalized))
	}
	return math.Min(relevance, 1)
}

func (s *Scorer) composite(frequency, recency, popularity, relevance float64) float64 {
	w := s.cfg.Weights
	return frequency*w.Frequency +
		recency*w.Recency +
		popularity*w.Popularity +
		relevance*w.GenreRelevance
}

// Score scores one artist. The result is tiered as supporting until
// classified.
func (s *Scorer) Score(artist catalog.Artist) ScoredArtist {
	a := ScoredArtist{
		Artist:          artist,
		FrequencyScore:  s.Frequency(artist.ID),
		RecencyScore:    s.Recency(artist.ID),
		PopularityScore: float64(artist.Popularity) / 100,
		GenreRelevance:  s.GenreRelevance(artist),
		Tier:            Supporting,
	}
	a.CompositeScore = s.composite(a.FrequencyScore, a.RecencyScore, a.PopularityScore, a.GenreRelevance)
	return a
}

// ScoreArtist scores a single artist against the collection.
func ScoreArtist(artist catalog.Artist, data *catalog.Collection, profile genre.Profile, cfg Config) ScoredArtist {
	return NewScorer(data, profile, cfg).Score(artist)
}

// ScoreAll scores every unique artist of the three windows. When an artist
// appears in several windows the short-term record wins, then medium-term.
// The result is sorted by composite score, best first; ties keep window
// order.
func ScoreAll(data *catalog.Collection, profile genre.Profile, cfg Config) []ScoredArtist {
	s := NewScorer(data, profile, cfg)

	seen := make(map[string]struct{})
	var scored []ScoredArtist
	for _, artist := range data.TopArtists.All() {
		if _, ok := seen[artist.ID]; ok {
			continue
		}
		seen[artist.ID] = struct{}{}
		scored = append(scored, s.Score(artist))
	}

	sortByScore(scored)
	return scored
}

func sortByScore(artists []ScoredArtist) {
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].CompositeScore > artists[j].CompositeScore
	})
}
