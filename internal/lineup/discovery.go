package lineup

import (
	"math"
	"strings"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

const (
	minDiscoveryOverlap = 1.0

	risingMinPopularity = 30
	risingMaxPopularity = 70
	risingBonus         = 0.2
)

// SelectDiscovery picks discovery acts from the related-artist data.
//
// Normally only artists the listener does not already know, sharing enough
// genre vocabulary with the dominant genres, qualify. When the related data
// is the fallback proxy every candidate is accepted with a moderate,
// popularity-based score. Either way the first occurrence of an artist
// wins, and the best DiscoveryCount are returned.
func SelectDiscovery(related []catalog.RelatedSet, profile genre.Profile, known map[string]struct{}, cfg Config) []ScoredArtist {
	fallback := false
	for _, r := range related {
		if r.SeedID == catalog.FallbackSeed {
			fallback = true
			break
		}
	}

	seen := make(map[string]struct{})
	var picked []ScoredArtist
	for _, r := range related {
		for _, artist := range r.Artists {
			if _, ok := seen[artist.ID]; ok {
				continue
			}

			var scored ScoredArtist
			if fallback {
				scored = fallbackDiscovery(artist)
			} else {
				if _, ok := known[artist.ID]; ok {
					continue
				}
				var ok bool
				scored, ok = scoreDiscovery(artist, profile)
				if !ok {
					continue
				}
			}
			seen[artist.ID] = struct{}{}
			picked = append(picked, scored)
		}
	}

	sortByScore(picked)
	if n := max(cfg.Thresholds.DiscoveryCount, 0); len(picked) > n {
		picked = picked[:n]
	}
	return picked
}

// genreOverlap scores 2 per exact dominant-genre match and 0.5 per partial
// match.
func genreOverlap(artist catalog.Artist, profile genre.Profile) float64 {
	var overlap float64
	for _, tag := range artist.Genres {
		normalized := strings.ToLower(tag)
		if profile.IsDominant(normalized) {
			overlap += 2
		}
		overlap += 0.5 * float64(profile.PartialMatches(normalized))
	}
	return overlap
}

func scoreDiscovery(artist catalog.Artist, profile genre.Profile) (ScoredArtist, bool) {
	overlap := genreOverlap(artist, profile)
	if overlap < minDiscoveryOverlap {
		return ScoredArtist{}, false
	}

	relevance := math.Min(overlap/5, 1)
	composite := relevance
	if artist.Popularity >= risingMinPopularity && artist.Popularity <= risingMaxPopularity {
		composite += risingBonus
	}

	return ScoredArtist{
		Artist:          artist,
		PopularityScore: float64(artist.Popularity) / 100,
		GenreRelevance:  relevance,
		CompositeScore:  composite,
		Tier:            Discovery,
	}, true
}

func fallbackDiscovery(artist catalog.Artist) ScoredArtist {
	return ScoredArtist{
		Artist:          artist,
		FrequencyScore:  0.1,
		PopularityScore: float64(artist.Popularity) / 100,
		GenreRelevance:  0.5,
		CompositeScore:  0.3 + float64(artist.Popularity)/200,
		Tier:            Discovery,
	}
}
