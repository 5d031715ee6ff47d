package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

var _ catalog.Source = (*Client)(nil)

var timeRanges = map[catalog.Window]string{
	catalog.Short:  "short_term",
	catalog.Medium: "medium_term",
	catalog.Long:   "long_term",
}

type image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type artistObject struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []image  `json:"images"`
}

type simpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackObject struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Artists []simpleArtist `json:"artists"`
}

type artistsPage struct {
	Items []artistObject `json:"items"`
	Next  string         `json:"next"`
}

type tracksPage struct {
	Items []trackObject `json:"items"`
	Next  string        `json:"next"`
}

type playHistory struct {
	Items []struct {
		Track trackObject `json:"track"`
	} `json:"items"`
}

type relatedArtists struct {
	Artists []artistObject `json:"artists"`
}

type userProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (a artistObject) toArtist() catalog.Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return catalog.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     genres,
		Popularity: a.Popularity,
		ImageURL:   largestImage(a.Images),
	}
}

func (t trackObject) toTrack() catalog.Track {
	track := catalog.Track{ID: t.ID, Name: t.Name}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, catalog.ArtistRef{ID: a.ID, Name: a.Name})
	}
	return track
}

func largestImage(images []image) string {
	best := -1
	for i, img := range images {
		if best < 0 || img.Width*img.Height > images[best].Width*images[best].Height {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return images[best].URL
}

func (c *Client) Profile(ctx context.Context) (catalog.User, error) {
	var p userProfile
	if err := c.get(ctx, "/me", nil, &p); err != nil {
		return catalog.User{}, err
	}
	name := p.DisplayName
	if name == "" {
		name = p.ID
	}
	return catalog.User{ID: p.ID, DisplayName: name}, nil
}

func (c *Client) TopArtists(ctx context.Context, w catalog.Window, limit int) ([]catalog.Artist, error) {
	timeRange, ok := timeRanges[w]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", w)
	}

	var artists []catalog.Artist
	for offset := 0; offset < limit; offset += pageLimit {
		var page artistsPage
		err := c.get(ctx, "/me/top/artists", pageQuery(timeRange, offset, min(pageLimit, limit-offset)), &page)
		if err != nil {
			return nil, err
		}
		for _, a := range page.Items {
			artists = append(artists, a.toArtist())
		}
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}
	return artists, nil
}

func (c *Client) TopTracks(ctx context.Context, w catalog.Window, limit int) ([]catalog.Track, error) {
	timeRange, ok := timeRanges[w]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", w)
	}

	var tracks []catalog.Track
	for offset := 0; offset < limit; offset += pageLimit {
		var page tracksPage
		err := c.get(ctx, "/me/top/tracks", pageQuery(timeRange, offset, min(pageLimit, limit-offset)), &page)
		if err != nil {
			return nil, err
		}
		for _, t := range page.Items {
			tracks = append(tracks, t.toTrack())
		}
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}
	return tracks, nil
}

// RecentlyPlayed returns at most 50 tracks; the API does not page further
// back.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]catalog.Track, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(min(limit, pageLimit)))

	var history playHistory
	if err := c.get(ctx, "/me/player/recently-played", query, &history); err != nil {
		return nil, err
	}

	tracks := make([]catalog.Track, 0, len(history.Items))
	for _, item := range history.Items {
		tracks = append(tracks, item.Track.toTrack())
	}
	return tracks, nil
}

func (c *Client) RelatedArtists(ctx context.Context, artist catalog.Artist) ([]catalog.Artist, error) {
	var related relatedArtists
	if err := c.get(ctx, "/artists/"+url.PathEscape(artist.ID)+"/related-artists", nil, &related); err != nil {
		return nil, err
	}

	artists := make([]catalog.Artist, 0, len(related.Artists))
	for _, a := range related.Artists {
		artists = append(artists, a.toArtist())
	}
	return artists, nil
}

func pageQuery(timeRange string, offset, limit int) url.Values {
	query := url.Values{}
	query.Set("time_range", timeRange)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	return query
}
