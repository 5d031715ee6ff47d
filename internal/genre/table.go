// Package genre maps free-text genre tags onto canonical parent genres and
// builds frequency profiles of raw tags.
package genre

import (
	"errors"
	"fmt"
	"strings"
)

// Other is the parent assigned to tags that match no category.
const Other = "other"

// Category is one parent genre and the keywords that select it.
type Category struct {
	Name     string
	Keywords []string
	Weight   float64
}

// Table is an ordered list of categories. Order matters: a tag like
// "indie rock" contains keywords of several categories, and the first
// matching category in table order wins.
//
// A Table is immutable once built; share it freely.
type Table struct {
	categories []Category
	weights    map[string]float64
}

var (
	ErrEmptyName      = errors.New("category name is empty")
	ErrDuplicateName  = errors.New("duplicate category name")
	ErrInvalidWeight  = errors.New("category weight must be positive")
	ErrInvalidKeyword = errors.New("keywords must be non-empty and lower-case")
)

// NewTable validates the categories and returns a Table holding a copy of them.
func NewTable(categories []Category) (Table, error) {
	t := Table{
		categories: make([]Category, 0, len(categories)),
		weights:    make(map[string]float64, len(categories)),
	}
	for _, c := range categories {
		if c.Name == "" {
			return Table{}, ErrEmptyName
		}
		if _, exists := t.weights[c.Name]; exists {
			return Table{}, fmt.Errorf("%q: %w", c.Name, ErrDuplicateName)
		}
		if c.Weight <= 0 {
			return Table{}, fmt.Errorf("%q: %w", c.Name, ErrInvalidWeight)
		}
		for _, k := range c.Keywords {
			if k == "" || k != strings.ToLower(k) {
				return Table{}, fmt.Errorf("%q keyword %q: %w", c.Name, k, ErrInvalidKeyword)
			}
		}

		keywords := make([]string, len(c.Keywords))
		copy(keywords, c.Keywords)
		t.categories = append(t.categories, Category{Name: c.Name, Keywords: keywords, Weight: c.Weight})
		t.weights[c.Name] = c.Weight
	}
	return t, nil
}

// MustNewTable is NewTable for static tables; it panics on invalid input.
func MustNewTable(categories []Category) Table {
	t, err := NewTable(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// Categories returns a copy of the table's categories in order.
func (t Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		keywords := make([]string, len(c.Keywords))
		copy(keywords, c.Keywords)
		out[i] = Category{Name: c.Name, Keywords: keywords, Weight: c.Weight}
	}
	return out
}

// Weight returns the configured weight of a parent genre, or 1.0 for parents
// the table does not define (including Other).
func (t Table) Weight(parent string) float64 {
	if w, ok := t.weights[parent]; ok {
		return w
	}
	return 1.0
}

// Len is the number of categories.
func (t Table) Len() int {
	return len(t.categories)
}

var defaultCategories = []Category{
	{
		Name: "electronic",
		Keywords: []string{
			"electronic", "edm", "house", "techno", "trance", "dubstep",
			"drum and bass", "ambient", "downtempo", "chillwave",
		},
		Weight: 1.0,
	},
	{
		Name:     "hip-hop",
		Keywords: []string{"hip hop", "rap", "trap", "drill", "grime", "boom bap", "conscious hip hop"},
		Weight:   1.2,
	},
	{
		Name: "rock",
		Keywords: []string{
			"rock", "alternative", "indie rock", "punk", "grunge", "metal",
			"post-punk", "shoegaze", "emo",
		},
		Weight: 1.0,
	},
	{
		// Broadly applied tag, weighted down.
		Name:     "pop",
		Keywords: []string{"pop", "electropop", "synth-pop", "dance pop", "bubblegum pop"},
		Weight:   0.9,
	},
	{
		Name:     "r&b",
		Keywords: []string{"r&b", "soul", "neo-soul", "contemporary r&b", "funk"},
		Weight:   1.1,
	},
	{
		Name:     "jazz",
		Keywords: []string{"jazz", "bebop", "fusion", "smooth jazz", "cool jazz", "hard bop"},
		Weight:   1.3,
	},
	{
		Name:     "latin",
		Keywords: []string{"latin", "reggaeton", "bachata", "salsa", "merengue", "latin trap"},
		Weight:   1.0,
	},
	{
		Name:     "afrobeats",
		Keywords: []string{"afrobeat", "afro", "afropop", "amapiano", "highlife"},
		Weight:   1.2,
	},
	{
		Name:     "country",
		Keywords: []string{"country", "americana", "bluegrass", "country pop", "outlaw country"},
		Weight:   1.0,
	},
	{
		Name:     "metal",
		Keywords: []string{"metal", "metalcore", "death metal", "black metal", "thrash metal", "doom metal"},
		Weight:   1.3,
	},
	{
		Name:     "indie",
		Keywords: []string{"indie", "indie pop", "indie folk", "bedroom pop", "lo-fi"},
		Weight:   1.1,
	},
	{
		Name:     "classical",
		Keywords: []string{"classical", "orchestral", "symphony", "baroque", "romantic era"},
		Weight:   1.4,
	},
}

var defaultTable = MustNewTable(defaultCategories)

// DefaultTable returns the built-in genre table.
func DefaultTable() Table {
	return defaultTable
}
