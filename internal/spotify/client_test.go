package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/festival-lineup/internal/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithBaseURL(server.URL),
		WithRateLimit(0),
		WithRetry(3, 0),
	}, opts...)
	return New("test-token", opts...)
}

func TestProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id": "alex", "display_name": "Alex"}`)
	})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.User{ID: "alex", DisplayName: "Alex"}, user)
}

func TestProfileWithoutDisplayName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "alex", "display_name": null}`)
	})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alex", user.DisplayName)
}

func TestTopArtistsPaginates(t *testing.T) {
	var offsets []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/artists", r.URL.Path)
		assert.Equal(t, "medium_term", r.URL.Query().Get("time_range"))
		offsets = append(offsets, r.URL.Query().Get("offset"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"items": [`)
		for i := 0; i < limit; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id": "a%d", "name": "Artist %d", "genres": ["indie rock"], "popularity": 60}`, offset+i, offset+i)
		}
		fmt.Fprint(w, `], "next": "more"}`)
	})

	artists, err := c.TopArtists(context.Background(), catalog.Medium, 70)
	require.NoError(t, err)
	require.Len(t, artists, 70)
	assert.Equal(t, []string{"0", "50"}, offsets)
	assert.Equal(t, "a0", artists[0].ID)
	assert.Equal(t, "a69", artists[69].ID)
	assert.Equal(t, []string{"indie rock"}, artists[0].Genres)
}

func TestTopArtistsStopsAtLastPage(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"items": [{"id": "a", "name": "A", "images": [
			{"url": "small", "width": 64, "height": 64},
			{"url": "large", "width": 640, "height": 640}
		]}], "next": null}`)
	})

	artists, err := c.TopArtists(context.Background(), catalog.Short, 100)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "large", artists[0].ImageURL)
	assert.NotNil(t, artists[0].Genres)
}

func TestTopTracks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/tracks", r.URL.Path)
		assert.Equal(t, "long_term", r.URL.Query().Get("time_range"))
		fmt.Fprint(w, `{"items": [{"id": "t1", "name": "Alison", "artists": [{"id": "a1", "name": "Slowdive"}, {"id": "a2", "name": "Guest"}]}]}`)
	})

	tracks, err := c.TopTracks(context.Background(), catalog.Long, 10)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Alison", tracks[0].Name)
	assert.Equal(t, []catalog.ArtistRef{{ID: "a1", Name: "Slowdive"}, {ID: "a2", Name: "Guest"}}, tracks[0].Artists)
}

func TestRecentlyPlayed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/recently-played", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"items": [
			{"track": {"id": "t1", "name": "One", "artists": [{"id": "a1", "name": "A"}]}},
			{"track": {"id": "t2", "name": "Two", "artists": [{"id": "a1", "name": "A"}]}}
		]}`)
	})

	tracks, err := c.RecentlyPlayed(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "t2", tracks[1].ID)
}

func TestRelatedArtists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artists/seed1/related-artists", r.URL.Path)
		fmt.Fprint(w, `{"artists": [{"id": "r1", "name": "Ride", "genres": ["shoegaze"], "popularity": 55}]}`)
	})

	related, err := c.RelatedArtists(context.Background(), catalog.Artist{ID: "seed1"})
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Ride", related[0].Name)
	assert.Equal(t, 55, related[0].Popularity)
}

func TestRetriesAfterRateLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id": "alex"}`)
	})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alex", user.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"id": "alex"}`)
	})

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such artist", http.StatusNotFound)
	})

	_, err := c.RelatedArtists(context.Background(), catalog.Artist{ID: "missing"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se), "error %v is not a StatusError", err)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, se.Temporary())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetry(1, 0))

	for i := 0; i < 5; i++ {
		_, err := c.Profile(context.Background())
		require.Error(t, err)
	}

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, WithRetry(1, 0))

	for i := 0; i < 10; i++ {
		_, err := c.Profile(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "alex"}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, defaultRetryAfter, retryAfter(""))
	assert.Equal(t, defaultRetryAfter, retryAfter("soon"))
	assert.Equal(t, defaultRetryAfter, retryAfter("-3"))
	assert.Equal(t, time.Duration(0), retryAfter("0"))
	assert.Equal(t, 7*time.Second, retryAfter("7"))
}
