// Package catalog defines the raw listening data consumed by the analysis
// engine and the Source interface implemented by catalog clients.
//
// Every list in a Collection must arrive pre-sorted by the source's own
// ranking, most relevant first. Position-based scoring and "top 10" cuts
// depend on that order; nothing downstream re-sorts input lists.
package catalog

// FallbackSeed is the seed key of the related-artist entry built when the
// related-artist graph came back empty. Its presence switches discovery
// selection into fallback mode.
const FallbackSeed = "__fallback__"

// Window is an observation window for top-artist and top-track rankings.
type Window string

const (
	Short  Window = "short"
	Medium Window = "medium"
	Long   Window = "long"
)

// Windows lists the windows from most to least recent.
var Windows = []Window{Short, Medium, Long}

// User is the listener the data belongs to. Never interpreted.
type User struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"displayName"`
}

// Artist is an artist record as supplied by the catalog.
type Artist struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Genres     []string `yaml:"genres" json:"genres"`
	Popularity int      `yaml:"popularity" json:"popularity"` // 0..100
	ImageURL   string   `yaml:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// ArtistRef is the short artist form carried by tracks.
type ArtistRef struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Track is a track record as supplied by the catalog.
type Track struct {
	ID      string      `yaml:"id" json:"id"`
	Name    string      `yaml:"name" json:"name"`
	Artists []ArtistRef `yaml:"artists" json:"artists"`
}

// RecentPlays summarises recently-played events per artist.
type RecentPlays struct {
	ArtistIDs  map[string]struct{}
	PlayCounts map[string]int
}

// Has reports whether the artist appears in the recent plays.
func (r RecentPlays) Has(artistID string) bool {
	_, ok := r.ArtistIDs[artistID]
	return ok
}

// CountPlays counts, per artist, the recently-played tracks they appear on.
func CountPlays(tracks []Track) RecentPlays {
	r := RecentPlays{
		ArtistIDs:  make(map[string]struct{}),
		PlayCounts: make(map[string]int),
	}
	for _, t := range tracks {
		for _, a := range t.Artists {
			r.ArtistIDs[a.ID] = struct{}{}
			r.PlayCounts[a.ID]++
		}
	}
	return r
}

// RelatedSet is the list of artists related to one seed artist.
type RelatedSet struct {
	SeedID  string
	Artists []Artist
}

// TopArtists holds the top-artist ranking of each window.
type TopArtists struct {
	Short  []Artist
	Medium []Artist
	Long   []Artist
}

// Get returns the ranking for a window.
func (t TopArtists) Get(w Window) []Artist {
	switch w {
	case Short:
		return t.Short
	case Medium:
		return t.Medium
	case Long:
		return t.Long
	}
	return nil
}

// All returns short, medium and long rankings concatenated, in that order.
func (t TopArtists) All() []Artist {
	all := make([]Artist, 0, len(t.Short)+len(t.Medium)+len(t.Long))
	all = append(all, t.Short...)
	all = append(all, t.Medium...)
	return append(all, t.Long...)
}

// Collection is everything fetched for one analysis run.
type Collection struct {
	User       User
	TopArtists TopArtists
	TopTracks  []Track
	Recent     RecentPlays

	// Related is ordered; the first occurrence of an artist wins.
	Related []RelatedSet
}

// IsFallback reports whether the related-artist data is the fallback proxy.
func (c *Collection) IsFallback() bool {
	for _, r := range c.Related {
		if r.SeedID == FallbackSeed {
			return true
		}
	}
	return false
}

// FallbackDiscovery returns up to limit long-term artists that are absent
// from the short-term ranking: the discovery proxy used when no related
// artists are available.
func FallbackDiscovery(short, long []Artist, limit int) []Artist {
	shortIDs := make(map[string]struct{}, len(short))
	for _, a := range short {
		shortIDs[a.ID] = struct{}{}
	}

	var out []Artist
	for _, a := range long {
		if len(out) >= limit {
			break
		}
		if _, ok := shortIDs[a.ID]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}
