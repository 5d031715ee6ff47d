package store

import (
	"fmt"
	"time"
)

// SaveArtistDetails replaces the cached details and tags of an artist.
func (s *Store) SaveArtistDetails(d ArtistDetails) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureArtist(tx, d.Name); err != nil {
		return err
	}

	_, err = tx.Exec(
		"UPDATE Artist SET listeners = ?, image_url = ?, details_last_updated = ? WHERE name = ?",
		d.Listeners, d.ImageURL, s.now().UTC(), d.Name)
	if err != nil {
		return fmt.Errorf("updating artist %q: %w", d.Name, err)
	}

	if _, err := tx.Exec("DELETE FROM ArtistTag WHERE artist = ?", d.Name); err != nil {
		return fmt.Errorf("clearing tags for %q: %w", d.Name, err)
	}
	for i, t := range d.Tags {
		if _, err := tx.Exec("INSERT OR IGNORE INTO Tag (name) VALUES (?)", t.Tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", t.Tag, err)
		}
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO ArtistTag (artist, tag, count, position) VALUES (?, ?, ?, ?)",
			d.Name, t.Tag, t.Count, i)
		if err != nil {
			return fmt.Errorf("linking tag %q to artist %q: %w", t.Tag, d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveSimilarArtists replaces the cached similar artists of an artist.
func (s *Store) SaveSimilarArtists(name string, similar []SimilarArtist) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureArtist(tx, name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM SimilarArtist WHERE artist = ?", name); err != nil {
		return fmt.Errorf("clearing similar artists for %q: %w", name, err)
	}
	for i, a := range similar {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO SimilarArtist (artist, similar, match, position) VALUES (?, ?, ?, ?)",
			name, a.Name, a.Match, i)
		if err != nil {
			return fmt.Errorf("inserting similar artist %q for %q: %w", a.Name, name, err)
		}
	}

	_, err = tx.Exec("UPDATE Artist SET similar_last_updated = ? WHERE name = ?", s.now().UTC(), name)
	if err != nil {
		return fmt.Errorf("updating similar timestamp for %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Prune removes artists with nothing cached more recently than olderThan,
// along with their tags and similar artists. It returns the number of
// artists removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	threshold := s.now().UTC().Add(-olderThan)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stale := `
		SELECT name FROM Artist
		WHERE (details_last_updated IS NULL OR details_last_updated < ?)
		AND (similar_last_updated IS NULL OR similar_last_updated < ?)
	`
	if _, err := tx.Exec("DELETE FROM ArtistTag WHERE artist IN ("+stale+")", threshold, threshold); err != nil {
		return 0, fmt.Errorf("pruning tags: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM SimilarArtist WHERE artist IN ("+stale+")", threshold, threshold); err != nil {
		return 0, fmt.Errorf("pruning similar artists: %w", err)
	}
	res, err := tx.Exec("DELETE FROM Artist WHERE name IN ("+stale+")", threshold, threshold)
	if err != nil {
		return 0, fmt.Errorf("pruning artists: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM Tag WHERE name NOT IN (SELECT tag FROM ArtistTag)"); err != nil {
		return 0, fmt.Errorf("pruning unused tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return res.RowsAffected()
}
