package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ademuri/festival-lineup/internal/logging"
)

// Source supplies raw listening data. Implementations own transport, auth,
// retries and rate limiting; callers only see plain records.
type Source interface {
	Profile(ctx context.Context) (User, error)

	// TopArtists returns the user's top artists for a window, best first.
	TopArtists(ctx context.Context, w Window, limit int) ([]Artist, error)

	// TopTracks returns the user's top tracks for a window, best first.
	TopTracks(ctx context.Context, w Window, limit int) ([]Track, error)

	// RecentlyPlayed returns recently played tracks, newest first.
	RecentlyPlayed(ctx context.Context, limit int) ([]Track, error)

	// RelatedArtists returns artists related to the given one. An empty
	// result is not an error.
	RelatedArtists(ctx context.Context, artist Artist) ([]Artist, error)
}

// CollectOptions controls what a Collector fetches.
type CollectOptions struct {
	ShortLimit  int
	MediumLimit int
	LongLimit   int

	TrackLimit  int
	TrackWindow Window

	RecentLimit int

	// RelatedSeeds is how many short-term artists get a related-artist
	// fetch; RelatedPerSeed caps each result.
	RelatedSeeds   int
	RelatedPerSeed int
	RelatedDelay   time.Duration

	// FallbackLimit caps the fallback discovery proxy.
	FallbackLimit int

	SkipTracks  bool
	SkipRecent  bool
	SkipRelated bool
}

// LineupOptions returns the limits used for lineup generation.
func LineupOptions() CollectOptions {
	return CollectOptions{
		ShortLimit:     50,
		MediumLimit:    50,
		LongLimit:      50,
		TrackLimit:     50,
		TrackWindow:    Long,
		RecentLimit:    50,
		RelatedSeeds:   10,
		RelatedPerSeed: 10,
		RelatedDelay:   50 * time.Millisecond,
		FallbackLimit:  15,
		SkipTracks:     true,
	}
}

// DNAOptions returns the limits used for the music-DNA genre analysis.
func DNAOptions() CollectOptions {
	return CollectOptions{
		ShortLimit:  20,
		LongLimit:   50,
		TrackLimit:  50,
		TrackWindow: Long,
		SkipRecent:  true,
		SkipRelated: true,
	}
}

// Collector gathers a Collection from a Source.
type Collector struct {
	src     Source
	opts    CollectOptions
	limiter *rate.Limiter
}

// NewCollector creates a Collector. Related-artist calls are issued one at a
// time, spaced by opts.RelatedDelay.
func NewCollector(src Source, opts CollectOptions) *Collector {
	limit := rate.Inf
	if opts.RelatedDelay > 0 {
		limit = rate.Every(opts.RelatedDelay)
	}
	return &Collector{
		src:     src,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Collect fetches the profile and the three top-artist windows concurrently,
// then top tracks, recent plays and related artists. Any failure other than
// a related-artist fetch aborts the collection.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	log := logging.With("collector")
	data := &Collection{
		Recent: CountPlays(nil),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := c.src.Profile(gctx)
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}
		data.User = user
		return nil
	})
	windows := []struct {
		w     Window
		limit int
		dst   *[]Artist
	}{
		{Short, c.opts.ShortLimit, &data.TopArtists.Short},
		{Medium, c.opts.MediumLimit, &data.TopArtists.Medium},
		{Long, c.opts.LongLimit, &data.TopArtists.Long},
	}
	for _, win := range windows {
		if win.limit <= 0 {
			continue
		}
		g.Go(func() error {
			artists, err := c.src.TopArtists(gctx, win.w, win.limit)
			if err != nil {
				return fmt.Errorf("fetching %s top artists: %w", win.w, err)
			}
			*win.dst = artists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("short", len(data.TopArtists.Short)).
		Int("medium", len(data.TopArtists.Medium)).
		Int("long", len(data.TopArtists.Long)).
		Msg("Fetched top artists")

	if !c.opts.SkipTracks && c.opts.TrackLimit > 0 {
		window := c.opts.TrackWindow
		if window == "" {
			window = Long
		}
		tracks, err := c.src.TopTracks(ctx, window, c.opts.TrackLimit)
		if err != nil {
			return nil, fmt.Errorf("fetching top tracks: %w", err)
		}
		data.TopTracks = tracks
	}

	if !c.opts.SkipRecent && c.opts.RecentLimit > 0 {
		recent, err := c.src.RecentlyPlayed(ctx, c.opts.RecentLimit)
		if err != nil {
			return nil, fmt.Errorf("fetching recently played: %w", err)
		}
		data.Recent = CountPlays(recent)
		log.Info().Int("artists", len(data.Recent.ArtistIDs)).Msg("Fetched recently played")
	}

	if !c.opts.SkipRelated {
		related, err := c.collectRelated(ctx, data.TopArtists)
		if err != nil {
			return nil, err
		}
		data.Related = related
	}

	return data, nil
}

// collectRelated fetches related artists for the top short-term artists one
// at a time. Failed or empty fetches are skipped; when nothing at all comes
// back the fallback proxy is installed instead.
func (c *Collector) collectRelated(ctx context.Context, top TopArtists) ([]RelatedSet, error) {
	log := logging.With("collector")

	seeds := top.Short
	if len(seeds) > c.opts.RelatedSeeds {
		seeds = seeds[:c.opts.RelatedSeeds]
	}

	var related []RelatedSet
	for _, seed := range seeds {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting to fetch related artists: %w", err)
		}

		artists, err := c.src.RelatedArtists(ctx, seed)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("artist", seed.Name).Msg("Could not fetch related artists")
			continue
		}
		if len(artists) == 0 {
			continue
		}
		if c.opts.RelatedPerSeed > 0 && len(artists) > c.opts.RelatedPerSeed {
			artists = artists[:c.opts.RelatedPerSeed]
		}
		related = append(related, RelatedSet{SeedID: seed.ID, Artists: artists})
	}

	log.Info().Int("seeds", len(related)).Msg("Fetched related artists")

	if len(related) == 0 {
		fallback := FallbackDiscovery(top.Short, top.Long, c.opts.FallbackLimit)
		log.Info().Int("artists", len(fallback)).Msg("No related artists available, using fallback discovery")
		if len(fallback) > 0 {
			related = append(related, RelatedSet{SeedID: FallbackSeed, Artists: fallback})
		}
	}

	return related, nil
}
