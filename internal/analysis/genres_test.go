package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

func artistsWithTags(prefix string, n int, tags ...string) []catalog.Artist {
	out := make([]catalog.Artist, n)
	for i := range out {
		out[i] = catalog.Artist{ID: fmt.Sprintf("%s%d", prefix, i), Genres: tags}
	}
	return out
}

func flatTable(names ...string) genre.Table {
	cats := make([]genre.Category, len(names))
	for i, n := range names {
		cats[i] = genre.Category{Name: n, Keywords: []string{n}, Weight: 1}
	}
	return genre.MustNewTable(cats)
}

func assertPrimaryInvariants(t *testing.T, primary []GenreBreakdown) {
	t.Helper()
	assert.LessOrEqual(t, len(primary), MaxPrimary)
	for i, g := range primary {
		assert.GreaterOrEqual(t, g.Percentage, MinPercentage, g.Name)
		if i > 0 {
			assert.LessOrEqual(t, g.Percentage, primary[i-1].Percentage)
		}
	}
}

func TestAnalyzeGenresUnknownTagsAndFormatting(t *testing.T) {
	long := append(artistsWithTags("r", 10, "indie rock"), artistsWithTags("k", 2, "k-pop")...)
	table := genre.MustNewTable([]genre.Category{
		{Name: "rock", Keywords: []string{"rock"}, Weight: 1.0},
	})

	got := AnalyzeGenres(long, nil, nil, table)

	require.Len(t, got.Primary, 2)
	assert.Equal(t, "Rock", got.Primary[0].Name)
	assert.Equal(t, 10, got.Primary[0].ArtistCount)
	assert.InDelta(t, 10.0/12*100, got.Primary[0].Percentage, 1e-9)
	assert.InDelta(t, 2.0/3, got.Primary[0].Specificity, 1e-9)
	assert.Equal(t, "Other", got.Primary[1].Name)
	assert.Equal(t, 2, got.Primary[1].ArtistCount)
	assertPrimaryInvariants(t, got.Primary)
}

func TestAnalyzeGenresFloorDropsSmallGenres(t *testing.T) {
	long := append(artistsWithTags("r", 40, "rock"), artistsWithTags("j", 1, "jazz")...)

	got := AnalyzeGenres(long, nil, nil, flatTable("rock", "jazz"))

	require.Len(t, got.Primary, 1)
	assert.Equal(t, "Rock", got.Primary[0].Name)
	assert.Equal(t, 0.0, got.Diversity)
}

func TestAnalyzeGenresCapsAtTen(t *testing.T) {
	var names []string
	var long []catalog.Artist
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("g%c", 'a'+i)
		names = append(names, name)
		long = append(long, artistsWithTags(name, i+5, name)...)
	}

	got := AnalyzeGenres(long, nil, nil, flatTable(names...))

	require.Len(t, got.Primary, MaxPrimary)
	assert.Equal(t, "Gl", got.Primary[0].Name)
	assertPrimaryInvariants(t, got.Primary)
}

func TestAnalyzeGenresUsesTrackWeights(t *testing.T) {
	long := []catalog.Artist{
		{ID: "a", Genres: []string{"rock"}},
		{ID: "b", Genres: []string{"jazz"}},
		{ID: "c", Genres: []string{"pop"}},
	}
	tracks := []catalog.Track{
		{ID: "t1", Artists: []catalog.ArtistRef{{ID: "a"}}},
		{ID: "t2", Artists: []catalog.ArtistRef{{ID: "b"}}},
	}

	got := AnalyzeGenres(long, nil, tracks, flatTable("rock", "jazz", "pop"))

	// a: 1.0, b: 0.75, c has no tracks and defaults to 1.0.
	require.Len(t, got.Primary, 3)
	assert.Equal(t, "Rock", got.Primary[0].Name)
	assert.Equal(t, "Pop", got.Primary[1].Name)
	assert.Equal(t, "Jazz", got.Primary[2].Name)
	assert.InDelta(t, 0.75, got.Primary[2].Weight, 1e-9)
	assert.InDelta(t, 0.75/2.75*100, got.Primary[2].Percentage, 1e-9)
}

func TestAnalyzeGenresAppliesCategoryWeight(t *testing.T) {
	long := []catalog.Artist{
		{ID: "a", Genres: []string{"jazz"}},
		{ID: "b", Genres: []string{"pop"}},
	}

	got := AnalyzeGenres(long, nil, nil, genre.DefaultTable())

	require.Len(t, got.Primary, 2)
	assert.InDelta(t, 1.3, got.Primary[0].Weight, 1e-9)
	assert.InDelta(t, 0.9, got.Primary[1].Weight, 1e-9)
}

func TestAnalyzeGenresEmpty(t *testing.T) {
	got := AnalyzeGenres(nil, nil, nil, genre.DefaultTable())

	assert.Empty(t, got.Primary)
	assert.Equal(t, 0.0, got.Diversity)
	assert.Equal(t, TemporalShift{RecentTrend: Consistent}, got.Temporal)
}

func TestDiversity(t *testing.T) {
	assert.Equal(t, 0.0, Diversity(nil))
	assert.Equal(t, 0.0, Diversity([]GenreBreakdown{{Percentage: 100}}))

	uniform := []GenreBreakdown{{Percentage: 25}, {Percentage: 25}, {Percentage: 25}, {Percentage: 25}}
	assert.InDelta(t, 100, Diversity(uniform), 1e-9)

	skewed := []GenreBreakdown{{Percentage: 90}, {Percentage: 10}}
	h := -(0.9*math.Log(0.9) + 0.1*math.Log(0.1)) / math.Log(2) * 100
	assert.InDelta(t, h, Diversity(skewed), 1e-9)
	assert.Less(t, Diversity(skewed), 100.0)
}

func TestTemporalShift(t *testing.T) {
	table := flatTable("rock", "jazz", "pop", "electronic")
	tagged := func(tags ...string) []catalog.Artist {
		out := make([]catalog.Artist, len(tags))
		for i, tag := range tags {
			out[i] = catalog.Artist{ID: tag, Genres: []string{tag}}
		}
		return out
	}

	tests := []struct {
		name  string
		long  []catalog.Artist
		short []catalog.Artist
		want  TemporalShift
	}{
		{
			name:  "exploring",
			long:  tagged("rock", "jazz", "pop"),
			short: tagged("rock", "electronic"),
			want:  TemporalShift{RecentTrend: Exploring, ShiftPercentage: 33, TopGrowingGenre: "Electronic"},
		},
		{
			name:  "returning",
			long:  tagged("rock", "jazz"),
			short: tagged("rock"),
			want:  TemporalShift{RecentTrend: Returning, ShiftPercentage: 50},
		},
		{
			name:  "consistent",
			long:  tagged("rock", "jazz"),
			short: tagged("jazz", "rock"),
			want:  TemporalShift{RecentTrend: Consistent},
		},
		{
			name:  "new genre below threshold",
			long:  tagged("rock", "jazz", "pop", "polka"),
			short: tagged("rock", "electronic"),
			want:  TemporalShift{RecentTrend: Consistent, TopGrowingGenre: "Electronic"},
		},
		{
			name:  "no long-term genres",
			short: tagged("pop"),
			want:  TemporalShift{RecentTrend: Consistent, TopGrowingGenre: "Pop"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AnalyzeGenres(tc.long, tc.short, nil, table)
			assert.Equal(t, tc.want, got.Temporal)
		})
	}
}
