// Package analysis derives a listener's music DNA: a weighted genre
// breakdown, a diversity index, the shift between long-term and recent
// listening, and listening-behaviour metrics.
package analysis

import (
	"math"
	"sort"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
)

const (
	// MinPercentage is the inclusion floor for primary genres.
	MinPercentage = 3.0
	MaxPrimary    = 10

	// exploringRatio is the share of new parent genres, relative to the
	// long-term parent count, above which recent listening is exploring.
	exploringRatio = 0.3
)

type genreBucket struct {
	parent        string
	count         int
	weightedCount float64
	artists       map[string]struct{}
	specificity   float64
}

// AnalyzeGenres builds the weighted genre breakdown of the long-term
// artists, its diversity index and the temporal shift towards the
// short-term artists. Artists are weighted by their positions in tracks.
func AnalyzeGenres(long, short []catalog.Artist, tracks []catalog.Track, table genre.Table) GenreAnalysis {
	weights := artistWeights(tracks)

	var buckets []*genreBucket
	byParent := make(map[string]*genreBucket)
	for _, artist := range long {
		w, ok := weights[artist.ID]
		if !ok {
			w = 1.0
		}
		for _, tag := range artist.Genres {
			c := table.Categorize(tag)
			b, ok := byParent[c.Parent]
			if !ok {
				b = &genreBucket{parent: c.Parent, artists: make(map[string]struct{})}
				byParent[c.Parent] = b
				buckets = append(buckets, b)
			}
			b.count++
			b.weightedCount += w * table.Weight(c.Parent)
			b.artists[artist.ID] = struct{}{}
			b.specificity = math.Max(b.specificity, c.Specificity)
		}
	}

	var total float64
	for _, b := range buckets {
		total += b.weightedCount
	}

	var primary []GenreBreakdown
	for _, b := range buckets {
		var pct float64
		if total > 0 {
			pct = b.weightedCount / total * 100
		}
		if pct < MinPercentage {
			continue
		}
		primary = append(primary, GenreBreakdown{
			Name:        genre.FormatName(b.parent),
			Percentage:  pct,
			Weight:      b.weightedCount,
			ArtistCount: len(b.artists),
			Specificity: b.specificity,
		})
	}
	sort.SliceStable(primary, func(i, j int) bool {
		return primary[i].Percentage > primary[j].Percentage
	})
	if len(primary) > MaxPrimary {
		primary = primary[:MaxPrimary]
	}

	return GenreAnalysis{
		Primary:   primary,
		Diversity: Diversity(primary),
		Temporal:  temporalShift(long, short, table),
	}
}

// artistWeights accumulates 1 - (i/len)*0.5 per track appearance, so the
// first track is worth 1.0 and the last just over 0.5.
func artistWeights(tracks []catalog.Track) map[string]float64 {
	weights := make(map[string]float64)
	n := float64(len(tracks))
	for i, track := range tracks {
		w := 1 - (float64(i)/n)*0.5
		for _, a := range track.Artists {
			weights[a.ID] += w
		}
	}
	return weights
}

// Diversity is the normalized Shannon entropy of the breakdown's
// percentages, on a 0-100 scale. Fewer than two genres have no diversity.
func Diversity(genres []GenreBreakdown) float64 {
	if len(genres) < 2 {
		return 0
	}

	var total float64
	for _, g := range genres {
		total += g.Percentage
	}
	if total <= 0 {
		return 0
	}

	var h float64
	for _, g := range genres {
		p := g.Percentage / total
		if p > 0 {
			h -= p * math.Log(p)
		}
	}

	return clamp(h/math.Log(float64(len(genres)))*100, 0, 100)
}

func temporalShift(long, short []catalog.Artist, table genre.Table) TemporalShift {
	longParents := parentsOf(long, table)
	shortParents := parentsOf(short, table)

	newGenres := difference(shortParents, longParents)
	oldGenres := difference(longParents, shortParents)

	shift := TemporalShift{RecentTrend: Consistent}
	if n := float64(len(longParents)); n > 0 {
		switch {
		case float64(len(newGenres)) > n*exploringRatio:
			shift.RecentTrend = Exploring
			shift.ShiftPercentage = int(math.Round(float64(len(newGenres)) / n * 100))
		case len(oldGenres) > 0 && len(newGenres) == 0:
			shift.RecentTrend = Returning
			shift.ShiftPercentage = int(math.Round(float64(len(oldGenres)) / n * 100))
		}
	}
	if len(newGenres) > 0 {
		shift.TopGrowingGenre = genre.FormatName(newGenres[0])
	}
	return shift
}

func parentsOf(artists []catalog.Artist, table genre.Table) []string {
	tags := make([][]string, len(artists))
	for i, a := range artists {
		tags[i] = a.Genres
	}
	return table.Parents(tags...)
}

// difference returns the elements of a not in b, in a's order.
func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
