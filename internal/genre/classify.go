package genre

import (
	"math"
	"strings"
)

// Classification is the parent genre of a raw tag and how niche the tag is.
type Classification struct {
	Parent string

	// Specificity in [0, 1]; tags with more words are more specific.
	Specificity float64
}

// Normalize lower-cases and trims a raw tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Categorize maps a raw tag onto its parent genre. The first category, in
// table order, with a keyword contained in the tag wins. Tags matching no
// keyword are classified as Other with specificity 0.5.
func (t Table) Categorize(tag string) Classification {
	normalized := Normalize(tag)
	words := len(strings.Fields(normalized))

	for _, c := range t.categories {
		for _, keyword := range c.Keywords {
			if strings.Contains(normalized, keyword) {
				return Classification{
					Parent:      c.Name,
					Specificity: math.Min(1, float64(words)/3),
				}
			}
		}
	}

	return Classification{Parent: Other, Specificity: 0.5}
}

// Parents returns the distinct parent genres of the artists' tags, in the
// order they are first seen.
func (t Table) Parents(tagLists ...[]string) []string {
	seen := make(map[string]struct{})
	var parents []string
	for _, tags := range tagLists {
		for _, tag := range tags {
			parent := t.Categorize(tag).Parent
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = struct{}{}
			parents = append(parents, parent)
		}
	}
	return parents
}

// FormatName title-cases a parent genre name, treating hyphens as word
// separators: "hip-hop" becomes "Hip-Hop".
func FormatName(parent string) string {
	parts := strings.Split(parent, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
