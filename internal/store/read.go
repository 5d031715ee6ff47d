package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TagCount is a catalog tag and its weight for an artist.
type TagCount struct {
	Tag   string
	Count int
}

type ArtistDetails struct {
	Name      string
	Listeners int64
	ImageURL  string

	// Tags are in catalog order, most relevant first.
	Tags      []TagCount
	UpdatedAt time.Time
}

type SimilarArtist struct {
	Name  string
	Match float64
}

// GetArtistDetails returns the cached details of an artist. The bool is
// false when the artist has never been fetched.
func (s *Store) GetArtistDetails(name string) (ArtistDetails, bool, error) {
	row := s.db.QueryRow(
		"SELECT name, listeners, image_url, details_last_updated FROM Artist WHERE name = ?", name)
	var d ArtistDetails
	var updated sql.NullTime
	err := row.Scan(&d.Name, &d.Listeners, &d.ImageURL, &updated)
	if err == sql.ErrNoRows {
		return ArtistDetails{}, false, nil
	}
	if err != nil {
		return ArtistDetails{}, false, fmt.Errorf("getting artist %q: %w", name, err)
	}
	if !updated.Valid {
		return ArtistDetails{}, false, nil
	}
	d.UpdatedAt = updated.Time

	rows, err := s.db.Query(
		"SELECT tag, count FROM ArtistTag WHERE artist = ? ORDER BY position ASC", name)
	if err != nil {
		return ArtistDetails{}, false, fmt.Errorf("getting tags for %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t TagCount
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return ArtistDetails{}, false, err
		}
		d.Tags = append(d.Tags, t)
	}
	return d, true, rows.Err()
}

// ArtistNeedsUpdate reports whether the artist's details are missing or
// older than ttl.
func (s *Store) ArtistNeedsUpdate(name string, ttl time.Duration) (bool, error) {
	return s.needsUpdate(name, "details_last_updated", ttl)
}

// SimilarNeedsUpdate reports whether the artist's similar artists are missing
// or older than ttl.
func (s *Store) SimilarNeedsUpdate(name string, ttl time.Duration) (bool, error) {
	return s.needsUpdate(name, "similar_last_updated", ttl)
}

func (s *Store) needsUpdate(name, column string, ttl time.Duration) (bool, error) {
	row := s.db.QueryRow(fmt.Sprintf("SELECT %s FROM Artist WHERE name = ?", column), name)
	var updated sql.NullTime
	err := row.Scan(&updated)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting %s for %q: %w", column, name, err)
	}
	if !updated.Valid {
		return true, nil
	}
	return updated.Time.Before(s.now().Add(-ttl)), nil
}

// GetSimilarArtists returns the cached similar artists, best match first.
func (s *Store) GetSimilarArtists(name string) ([]SimilarArtist, error) {
	rows, err := s.db.Query(
		"SELECT similar, match FROM SimilarArtist WHERE artist = ? ORDER BY position ASC", name)
	if err != nil {
		return nil, fmt.Errorf("querying similar artists for %q: %w", name, err)
	}
	defer rows.Close()

	var similar []SimilarArtist
	for rows.Next() {
		var a SimilarArtist
		if err := rows.Scan(&a.Name, &a.Match); err != nil {
			return nil, err
		}
		similar = append(similar, a)
	}
	return similar, rows.Err()
}

// ArtistsNeedingUpdate returns cached artists whose details are older than
// ttl, oldest first.
func (s *Store) ArtistsNeedingUpdate(ttl time.Duration) ([]string, error) {
	threshold := s.now().UTC().Add(-ttl)
	rows, err := s.db.Query(`
		SELECT name
		FROM Artist
		WHERE details_last_updated IS NULL OR details_last_updated < ?
		ORDER BY details_last_updated ASC, name ASC
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("querying artists for update: %w", err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

type Stats struct {
	Artists        int
	Tags           int
	SimilarArtists int
	Oldest         time.Time
	Newest         time.Time
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM Artist", &st.Artists},
		{"SELECT COUNT(DISTINCT tag) FROM ArtistTag", &st.Tags},
		{"SELECT COUNT(*) FROM SimilarArtist", &st.SimilarArtists},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("counting: %w", err)
		}
	}

	// MIN and MAX lose the column type, so read the bounds as ordered rows.
	bounds := []struct {
		order string
		dst   *time.Time
	}{
		{"ASC", &st.Oldest},
		{"DESC", &st.Newest},
	}
	for _, b := range bounds {
		var t sql.NullTime
		err := s.db.QueryRow(fmt.Sprintf(
			"SELECT details_last_updated FROM Artist WHERE details_last_updated IS NOT NULL ORDER BY details_last_updated %s LIMIT 1",
			b.order)).Scan(&t)
		if err != nil && err != sql.ErrNoRows {
			return Stats{}, fmt.Errorf("reading cache age: %w", err)
		}
		if t.Valid {
			*b.dst = t.Time
		}
	}
	return st, nil
}
