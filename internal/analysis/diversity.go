package analysis

import (
	"math"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

// topArtistCount is how many of the caller's top artists count as "top".
const topArtistCount = 10

// CalculateDiversityMetrics derives listening-behaviour scores from the
// long-term top artists (best first), the top tracks and an already computed
// genre analysis.
func CalculateDiversityMetrics(top []catalog.Artist, tracks []catalog.Track, genres GenreAnalysis) DiversityMetrics {
	m := DiversityMetrics{
		GenreDiversityScore: roundPercent(genres.Diversity),
	}

	if len(tracks) > 0 {
		n := float64(len(tracks))

		unique := make(map[string]struct{})
		for _, t := range tracks {
			for _, a := range t.Artists {
				unique[a.ID] = struct{}{}
			}
		}
		// Multi-artist tracks can push the ratio above 1.
		m.ArtistDiversityScore = roundPercent(float64(len(unique)) / n * 100)

		topIDs := make(map[string]struct{}, topArtistCount)
		for i := 0; i < len(top) && i < topArtistCount; i++ {
			topIDs[top[i].ID] = struct{}{}
		}
		fromTop := 0
		for _, t := range tracks {
			for _, a := range t.Artists {
				if _, ok := topIDs[a.ID]; ok {
					fromTop++
					break
				}
			}
		}
		m.TopArtistDependency = roundPercent(float64(fromTop) / n * 100)
	}

	m.DiscoveryScore = 100 - m.TopArtistDependency
	// Loyalty is reported separately but is the same measure as dependency.
	m.LoyaltyIndex = m.TopArtistDependency

	return m
}

// BuildReport runs the genre analysis and the diversity metrics for one
// listener.
func BuildReport(data *catalog.Collection, table genre.Table) Report {
	genres := AnalyzeGenres(data.TopArtists.Long, data.TopArtists.Short, data.TopTracks, table)
	return Report{
		GenreAnalysis:    genres,
		DiversityMetrics: CalculateDiversityMetrics(data.TopArtists.Long, data.TopTracks, genres),
	}
}

func roundPercent(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}
