package genre

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

func TestCategorize(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		tag         string
		parent      string
		specificity float64
	}{
		{"indie rock", "rock", 2.0 / 3},
		{"Indie Rock ", "rock", 2.0 / 3},
		{"indie pop", "pop", 2.0 / 3},
		{"bedroom", Other, 0.5},
		{"k-pop", "pop", 1.0 / 3},
		{"hip hop", "hip-hop", 2.0 / 3},
		{"deep house", "electronic", 2.0 / 3},
		{"progressive death metal core", "rock", 1},
		{"", Other, 0.5},
		{"polka", Other, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.tag, func(t *testing.T) {
			got := table.Categorize(tc.tag)
			assert.Equal(t, tc.parent, got.Parent)
			assert.InDelta(t, tc.specificity, got.Specificity, 1e-9)
		})
	}
}

func TestCategorizeFollowsTableOrder(t *testing.T) {
	first := MustNewTable([]Category{
		{Name: "indie", Keywords: []string{"indie"}, Weight: 1},
		{Name: "rock", Keywords: []string{"rock"}, Weight: 1},
	})
	second := MustNewTable([]Category{
		{Name: "rock", Keywords: []string{"rock"}, Weight: 1},
		{Name: "indie", Keywords: []string{"indie"}, Weight: 1},
	})

	assert.Equal(t, "indie", first.Categorize("indie rock").Parent)
	assert.Equal(t, "rock", second.Categorize("indie rock").Parent)
}

func TestTableWeight(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, 12, table.Len())
	assert.Equal(t, 1.2, table.Weight("hip-hop"))
	assert.Equal(t, 0.9, table.Weight("pop"))
	assert.Equal(t, 1.0, table.Weight(Other))
	assert.Equal(t, 1.0, table.Weight("vaporwave"))
}

func TestTableCategoriesIsACopy(t *testing.T) {
	table := DefaultTable()
	cats := table.Categories()
	cats[0].Keywords[0] = "changed"
	cats[0].Name = "changed"

	assert.Equal(t, "electronic", table.Categories()[0].Name)
	assert.Equal(t, "electronic", table.Categories()[0].Keywords[0])
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		want       error
	}{
		{"empty name", []Category{{Name: "", Weight: 1}}, ErrEmptyName},
		{"duplicate", []Category{{Name: "a", Weight: 1}, {Name: "a", Weight: 1}}, ErrDuplicateName},
		{"zero weight", []Category{{Name: "a", Weight: 0}}, ErrInvalidWeight},
		{"upper keyword", []Category{{Name: "a", Keywords: []string{"Rock"}, Weight: 1}}, ErrInvalidKeyword},
		{"empty keyword", []Category{{Name: "a", Keywords: []string{""}, Weight: 1}}, ErrInvalidKeyword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.categories)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := NewTable(nil)
	assert.NoError(t, err)
}

func TestParents(t *testing.T) {
	table := DefaultTable()
	got := table.Parents(
		[]string{"indie rock", "polka", "grunge"},
		[]string{"jazz", "rock"},
	)
	assert.Equal(t, []string{"rock", Other, "jazz"}, got)
	assert.Empty(t, table.Parents())
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Hip-Hop", FormatName("hip-hop"))
	assert.Equal(t, "Rock", FormatName("rock"))
	assert.Equal(t, "R&b", FormatName("r&b"))
	assert.Equal(t, "", FormatName(""))
}

func TestBuildProfile(t *testing.T) {
	artists := []catalog.Artist{
		{ID: "1", Genres: []string{"Indie Rock", "shoegaze"}},
		{ID: "2", Genres: []string{"indie rock", "dream pop"}},
		{ID: "3", Genres: []string{"shoegaze", "noise"}},
		{ID: "4", Genres: []string{"jazz", "ambient", "drone"}},
		{ID: "5"},
	}

	p := BuildProfile(artists)

	assert.Equal(t, 9, p.Total)
	assert.Equal(t, 2, p.Counts["indie rock"])
	// Ties keep first-seen order.
	assert.Equal(t, []string{"indie rock", "shoegaze", "dream pop", "noise", "jazz"}, p.Dominant)
	assert.Len(t, p.Ranked, 7)
	assert.Equal(t, TagCount{Tag: "drone", Count: 1}, p.Ranked[6])
}

func TestBuildProfileEmpty(t *testing.T) {
	p := BuildProfile(nil)
	assert.Zero(t, p.Total)
	assert.Empty(t, p.Dominant)
}

func TestProfileMatching(t *testing.T) {
	p := BuildProfile([]catalog.Artist{{Genres: []string{"rock", "indie pop"}}})

	assert.True(t, p.IsDominant("rock"))
	assert.False(t, p.IsDominant("indie"))

	// "indie rock" contains "rock"; "indie" is contained in "indie pop".
	assert.Equal(t, 1, p.PartialMatches("indie rock"))
	assert.Equal(t, 1, p.PartialMatches("indie"))
	assert.Equal(t, 1, p.PartialMatches("rock"))
	assert.Equal(t, 0, p.PartialMatches("jazz"))
}
