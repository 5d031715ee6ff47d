package genre

import (
	"sort"
	"strings"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

// DominantCount is the number of raw tags kept as dominant genres.
const DominantCount = 5

// TagCount is a raw tag and the number of artists carrying it.
type TagCount struct {
	Tag   string `yaml:"tag" json:"tag"`
	Count int    `yaml:"count" json:"count"`
}

// Profile counts raw (uncategorized) tags across a set of artists. Raw tags
// are kept on purpose: relevance scoring does partial matching against the
// raw vocabulary.
type Profile struct {
	Counts   map[string]int
	Ranked   []TagCount
	Dominant []string
	Total    int
}

// BuildProfile counts lower-cased tags across artists and ranks them by
// count. Ties keep first-seen order.
func BuildProfile(artists []catalog.Artist) Profile {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, artist := range artists {
		for _, tag := range artist.Genres {
			normalized := strings.ToLower(tag)
			if _, ok := counts[normalized]; !ok {
				order = append(order, normalized)
			}
			counts[normalized]++
			total++
		}
	}

	ranked := make([]TagCount, len(order))
	for i, tag := range order {
		ranked[i] = TagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	n := min(DominantCount, len(ranked))
	dominant := make([]string, n)
	for i := 0; i < n; i++ {
		dominant[i] = ranked[i].Tag
	}

	return Profile{
		Counts:   counts,
		Ranked:   ranked,
		Dominant: dominant,
		Total:    total,
	}
}

// IsDominant reports whether the normalized tag is one of the dominant tags.
func (p Profile) IsDominant(tag string) bool {
	for _, d := range p.Dominant {
		if d == tag {
			return true
		}
	}
	return false
}

// PartialMatches counts dominant tags that contain, or are contained by, the
// normalized tag. An exact match counts as a partial match too.
func (p Profile) PartialMatches(tag string) int {
	n := 0
	for _, d := range p.Dominant {
		if strings.Contains(tag, d) || strings.Contains(d, tag) {
			n++
		}
	}
	return n
}
