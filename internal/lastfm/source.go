package lastfm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/logging"
	"github.com/ademuri/festival-lineup/internal/store"
)

const (
	// genreTags is how many of an artist's top tags become its genres.
	genreTags = 5

	// similarLimit is how many similar artists are fetched per artist.
	similarLimit = 10

	// recentLimit is the largest page of recent tracks the API serves.
	recentLimit = 200

	DefaultTTL = 30 * 24 * time.Hour
)

var periods = map[catalog.Window]string{
	catalog.Short:  "1month",
	catalog.Medium: "6month",
	catalog.Long:   "overall",
}

var _ catalog.Source = (*Source)(nil)

type Source struct {
	api   API
	cache *store.Store
	user  string

	ttl        time.Duration
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
}

type Option func(*Source)

// WithTTL sets how long cached catalog records are used before they are
// fetched again.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) { s.ttl = ttl }
}

// WithRateLimit spaces requests at least interval apart.
func WithRateLimit(interval time.Duration) Option {
	return func(s *Source) {
		limit := rate.Inf
		if interval > 0 {
			limit = rate.Every(interval)
		}
		s.limiter = rate.NewLimiter(limit, 1)
	}
}

func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Source) {
		s.attempts = attempts
		s.retryDelay = delay
	}
}

// New creates a source for the listening data of user. Artist tags, listener
// counts and similar artists are read through cache.
func New(api API, cache *store.Store, user string, opts ...Option) *Source {
	s := &Source{
		api:        api,
		cache:      cache,
		user:       user,
		ttl:        DefaultTTL,
		limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
		attempts:   3,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Popularity maps a listener count onto 0-100. Ten million listeners scores
// 100.
func Popularity(listeners int64) int {
	if listeners <= 0 {
		return 0
	}
	p := int(math.Round(math.Log10(float64(listeners)+1) / 7 * 100))
	return max(0, min(100, p))
}

// temporary reports whether a Last.fm error may go away on retry.
func temporary(err error) bool {
	var lerr *lastfm.LastfmError
	if !errors.As(err, &lerr) {
		return false
	}
	switch lerr.Code {
	case 8, 11, 16, 29: // operation failed, service offline, temporary error, rate limited
		return true
	}
	return lerr.Code/100 == 5
}

// call paces and retries a request.
func (s *Source) call(ctx context.Context, what string, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	log := logging.With("lastfm")
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if temporary(err) {
				log.Warn().Err(err).Str("request", what).Msg("last.fm errored, retrying")
				return true
			}
			return false
		}),
	)
}

func (s *Source) Profile(ctx context.Context) (catalog.User, error) {
	var user catalog.User
	err := s.call(ctx, "user.getInfo", func() error {
		var err error
		user, err = s.api.UserInfo(s.user)
		return err
	})
	if err != nil {
		return catalog.User{}, fmt.Errorf("fetching user info: %w", err)
	}
	return user, nil
}

func (s *Source) TopArtists(ctx context.Context, w catalog.Window, limit int) ([]catalog.Artist, error) {
	period, ok := periods[w]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", w)
	}

	var names []string
	err := s.call(ctx, "user.getTopArtists", func() error {
		var err error
		names, err = s.api.TopArtists(s.user, period, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(names) > limit {
		names = names[:limit]
	}
	return s.artists(ctx, names)
}

func (s *Source) TopTracks(ctx context.Context, w catalog.Window, limit int) ([]catalog.Track, error) {
	period, ok := periods[w]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", w)
	}

	var tracks []catalog.Track
	err := s.call(ctx, "user.getTopTracks", func() error {
		var err error
		tracks, err = s.api.TopTracks(s.user, period, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (s *Source) RecentlyPlayed(ctx context.Context, limit int) ([]catalog.Track, error) {
	limit = min(limit, recentLimit)
	var tracks []catalog.Track
	err := s.call(ctx, "user.getRecentTracks", func() error {
		var err error
		tracks, err = s.api.RecentTracks(s.user, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	// The currently playing track is returned on top of the limit.
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (s *Source) RelatedArtists(ctx context.Context, artist catalog.Artist) ([]catalog.Artist, error) {
	similar, err := s.similar(ctx, artist.Name)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(similar))
	for _, a := range similar {
		names = append(names, a.Name)
	}
	return s.artists(ctx, names)
}

// Refresh re-fetches every cached artist older than the source's ttl. It
// returns how many artists were refreshed.
func (s *Source) Refresh(ctx context.Context) (int, error) {
	names, err := s.cache.ArtistsNeedingUpdate(s.ttl)
	if err != nil {
		return 0, err
	}

	log := logging.With("lastfm")
	log.Info().Int("artists", len(names)).Msg("Refreshing stale artists")

	refreshed := 0
	for i, name := range names {
		log.Debug().Msgf("[%d/%d] Fetching details for artist: %s", i+1, len(names), name)
		if _, err := s.fetchDetails(ctx, name); err != nil {
			if ctx.Err() != nil {
				return refreshed, ctx.Err()
			}
			log.Warn().Err(err).Str("artist", name).Msg("Error fetching artist details")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// artists hydrates names with cached or fetched details. An artist whose
// details cannot be fetched is kept without genres.
func (s *Source) artists(ctx context.Context, names []string) ([]catalog.Artist, error) {
	artists := make([]catalog.Artist, 0, len(names))
	for _, name := range names {
		d, err := s.details(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log := logging.With("lastfm")
			log.Warn().Err(err).Str("artist", name).Msg("Using artist without details")
			d = store.ArtistDetails{Name: name}
		}
		artists = append(artists, toArtist(name, d))
	}
	return artists, nil
}

func (s *Source) details(ctx context.Context, name string) (store.ArtistDetails, error) {
	cached, ok, err := s.cache.GetArtistDetails(name)
	if err != nil {
		return store.ArtistDetails{}, err
	}
	if ok {
		stale, err := s.cache.ArtistNeedsUpdate(name, s.ttl)
		if err != nil {
			return store.ArtistDetails{}, err
		}
		if !stale {
			return cached, nil
		}
	}

	fresh, err := s.fetchDetails(ctx, name)
	if err != nil {
		if ok && ctx.Err() == nil {
			log := logging.With("lastfm")
			log.Warn().Err(err).Str("artist", name).Msg("Using stale artist details")
			return cached, nil
		}
		return store.ArtistDetails{}, err
	}
	return fresh, nil
}

func (s *Source) fetchDetails(ctx context.Context, name string) (store.ArtistDetails, error) {
	var d store.ArtistDetails
	err := s.call(ctx, "artist.getInfo", func() error {
		var err error
		d, err = s.api.ArtistInfo(name)
		return err
	})
	if err != nil {
		return store.ArtistDetails{}, fmt.Errorf("fetching info for %q: %w", name, err)
	}

	err = s.call(ctx, "artist.getTopTags", func() error {
		var err error
		d.Tags, err = s.api.ArtistTags(name)
		return err
	})
	if err != nil {
		return store.ArtistDetails{}, fmt.Errorf("fetching tags for %q: %w", name, err)
	}

	d.Name = name
	if err := s.cache.SaveArtistDetails(d); err != nil {
		return store.ArtistDetails{}, fmt.Errorf("saving details for %q: %w", name, err)
	}
	return d, nil
}

func (s *Source) similar(ctx context.Context, name string) ([]store.SimilarArtist, error) {
	stale, err := s.cache.SimilarNeedsUpdate(name, s.ttl)
	if err != nil {
		return nil, err
	}
	if !stale {
		return s.cache.GetSimilarArtists(name)
	}

	var similar []store.SimilarArtist
	err = s.call(ctx, "artist.getSimilar", func() error {
		var err error
		similar, err = s.api.SimilarArtists(name, similarLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching similar artists for %q: %w", name, err)
	}
	if err := s.cache.SaveSimilarArtists(name, similar); err != nil {
		return nil, fmt.Errorf("saving similar artists for %q: %w", name, err)
	}
	return similar, nil
}

func toArtist(name string, d store.ArtistDetails) catalog.Artist {
	genres := make([]string, 0, genreTags)
	for _, t := range d.Tags {
		if len(genres) == genreTags {
			break
		}
		genres = append(genres, strings.ToLower(t.Tag))
	}
	return catalog.Artist{
		ID:         artistID(name),
		Name:       name,
		Genres:     genres,
		Popularity: Popularity(d.Listeners),
		ImageURL:   d.ImageURL,
	}
}
