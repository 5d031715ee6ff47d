// Package lastfm is a catalog.Source backed by the Last.fm web service and a
// local catalog cache.
package lastfm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ademuri/lastfm-go/lastfm"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/store"
)

// API is the part of the Last.fm web service used by Source.
type API interface {
	UserInfo(user string) (catalog.User, error)
	TopArtists(user, period string, limit int) ([]string, error)
	TopTracks(user, period string, limit int) ([]catalog.Track, error)
	RecentTracks(user string, limit int) ([]catalog.Track, error)
	ArtistInfo(artist string) (store.ArtistDetails, error)
	ArtistTags(artist string) ([]store.TagCount, error)
	SimilarArtists(artist string, limit int) ([]store.SimilarArtist, error)
}

type webAPI struct {
	client *lastfm.Api
}

func NewAPI(apiKey, secret string) API {
	client := lastfm.New(apiKey, secret)
	client.SetUserAgent("festival-lineup/1.0")
	return &webAPI{client: client}
}

func (w *webAPI) UserInfo(user string) (catalog.User, error) {
	info, err := w.client.User.GetInfo(lastfm.P{"user": user})
	if err != nil {
		return catalog.User{}, err
	}
	u := catalog.User{ID: strings.ToLower(info.Name), DisplayName: info.RealName}
	if u.ID == "" {
		u.ID = strings.ToLower(user)
	}
	if u.DisplayName == "" {
		u.DisplayName = user
	}
	return u, nil
}

func (w *webAPI) TopArtists(user, period string, limit int) ([]string, error) {
	top, err := w.client.User.GetTopArtists(lastfm.P{
		"user":   user,
		"period": period,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(top.Artists))
	for _, a := range top.Artists {
		names = append(names, a.Name)
	}
	return names, nil
}

func (w *webAPI) TopTracks(user, period string, limit int) ([]catalog.Track, error) {
	top, err := w.client.User.GetTopTracks(lastfm.P{
		"user":   user,
		"period": period,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}
	tracks := make([]catalog.Track, 0, len(top.Tracks))
	for _, t := range top.Tracks {
		tracks = append(tracks, newTrack(t.Artist.Name, t.Name))
	}
	return tracks, nil
}

func (w *webAPI) RecentTracks(user string, limit int) ([]catalog.Track, error) {
	recent, err := w.client.User.GetRecentTracks(lastfm.P{
		"user":  user,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}
	tracks := make([]catalog.Track, 0, len(recent.Tracks))
	for _, t := range recent.Tracks {
		tracks = append(tracks, newTrack(t.Artist.Name, t.Name))
	}
	return tracks, nil
}

func (w *webAPI) ArtistInfo(artist string) (store.ArtistDetails, error) {
	info, err := w.client.Artist.GetInfo(lastfm.P{
		"artist":      artist,
		"autocorrect": 1,
	})
	if err != nil {
		return store.ArtistDetails{}, err
	}

	d := store.ArtistDetails{Name: artist}
	if info.Stats.Listeners != "" {
		d.Listeners, err = strconv.ParseInt(info.Stats.Listeners, 10, 64)
		if err != nil {
			return store.ArtistDetails{}, fmt.Errorf("parsing listeners for %q: %w", artist, err)
		}
	}
	// Images are listed smallest first.
	for _, img := range info.Images {
		if img.Url != "" {
			d.ImageURL = img.Url
		}
	}
	return d, nil
}

func (w *webAPI) ArtistTags(artist string) ([]store.TagCount, error) {
	topTags, err := w.client.Artist.GetTopTags(lastfm.P{
		"artist":      artist,
		"autocorrect": 1,
	})
	if err != nil {
		return nil, err
	}
	tags := make([]store.TagCount, 0, len(topTags.Tags))
	for _, t := range topTags.Tags {
		c, _ := strconv.Atoi(t.Count)
		tags = append(tags, store.TagCount{Tag: t.Name, Count: c})
	}
	return tags, nil
}

func (w *webAPI) SimilarArtists(artist string, limit int) ([]store.SimilarArtist, error) {
	similar, err := w.client.Artist.GetSimilar(lastfm.P{
		"artist":      artist,
		"autocorrect": 1,
		"limit":       limit,
	})
	if err != nil {
		return nil, err
	}
	artists := make([]store.SimilarArtist, 0, len(similar.Similars))
	for _, s := range similar.Similars {
		match, _ := strconv.ParseFloat(s.Match, 64)
		artists = append(artists, store.SimilarArtist{Name: s.Name, Match: match})
	}
	return artists, nil
}

func newTrack(artist, name string) catalog.Track {
	return catalog.Track{
		ID:      artistID(artist) + "/" + strings.ToLower(name),
		Name:    name,
		Artists: []catalog.ArtistRef{{ID: artistID(artist), Name: artist}},
	}
}

// artistID identifies an artist by name, since Last.fm has no stable ids for
// many artists.
func artistID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
