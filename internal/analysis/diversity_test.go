package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

func track(id string, artistIDs ...string) catalog.Track {
	t := catalog.Track{ID: id}
	for _, a := range artistIDs {
		t.Artists = append(t.Artists, catalog.ArtistRef{ID: a})
	}
	return t
}

func assertMetricBounds(t *testing.T, m DiversityMetrics) {
	t.Helper()
	for name, v := range map[string]int{
		"artistDiversity": m.ArtistDiversityScore,
		"genreDiversity":  m.GenreDiversityScore,
		"discovery":       m.DiscoveryScore,
		"loyalty":         m.LoyaltyIndex,
		"dependency":      m.TopArtistDependency,
	} {
		assert.GreaterOrEqual(t, v, 0, name)
		assert.LessOrEqual(t, v, 100, name)
	}
	assert.Equal(t, 100, m.DiscoveryScore+m.TopArtistDependency)
	assert.Equal(t, m.TopArtistDependency, m.LoyaltyIndex)
}

func TestDiversityMetricsEmpty(t *testing.T) {
	m := CalculateDiversityMetrics(nil, nil, GenreAnalysis{})

	assert.Equal(t, DiversityMetrics{DiscoveryScore: 100}, m)
	assertMetricBounds(t, m)
}

func TestDiversityMetrics(t *testing.T) {
	top := []catalog.Artist{{ID: "a"}}
	tracks := []catalog.Track{
		track("1", "a"),
		track("2", "a", "b"),
		track("3", "c"),
		track("4", "d", "e"),
	}

	m := CalculateDiversityMetrics(top, tracks, GenreAnalysis{Diversity: 64.6})

	// Five unique artists over four tracks is capped.
	assert.Equal(t, 100, m.ArtistDiversityScore)
	assert.Equal(t, 65, m.GenreDiversityScore)
	assert.Equal(t, 50, m.TopArtistDependency)
	assert.Equal(t, 50, m.DiscoveryScore)
	assertMetricBounds(t, m)
}

func TestDiversityMetricsComplementAfterRounding(t *testing.T) {
	top := []catalog.Artist{{ID: "a"}}
	tracks := []catalog.Track{track("1", "a"), track("2", "b"), track("3", "c")}

	m := CalculateDiversityMetrics(top, tracks, GenreAnalysis{})

	assert.Equal(t, 33, m.TopArtistDependency)
	assert.Equal(t, 67, m.DiscoveryScore)
	assertMetricBounds(t, m)
}

func TestDiversityMetricsOnlyTopTenCount(t *testing.T) {
	var top []catalog.Artist
	for i := 0; i < 11; i++ {
		top = append(top, catalog.Artist{ID: fmt.Sprint(i)})
	}
	tracks := []catalog.Track{track("t0", "0"), track("t10", "10")}

	m := CalculateDiversityMetrics(top, tracks, GenreAnalysis{})

	assert.Equal(t, 50, m.TopArtistDependency)
	assertMetricBounds(t, m)
}

func TestBuildReport(t *testing.T) {
	data := &catalog.Collection{
		TopArtists: catalog.TopArtists{
			Long: []catalog.Artist{
				{ID: "a", Genres: []string{"indie rock"}},
				{ID: "b", Genres: []string{"jazz"}},
			},
			Short: []catalog.Artist{
				{ID: "a", Genres: []string{"indie rock"}},
				{ID: "c", Genres: []string{"deep house"}},
			},
		},
		TopTracks: []catalog.Track{track("1", "a"), track("2", "c")},
	}

	report := BuildReport(data, genre.DefaultTable())

	assert.Len(t, report.GenreAnalysis.Primary, 2)
	assert.Equal(t, Exploring, report.GenreAnalysis.Temporal.RecentTrend)
	assert.Equal(t, "Electronic", report.GenreAnalysis.Temporal.TopGrowingGenre)
	assert.Equal(t, 50, report.DiversityMetrics.TopArtistDependency)
	assertMetricBounds(t, report.DiversityMetrics)
}
