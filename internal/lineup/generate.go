package lineup

import (
	"errors"
	"fmt"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/genre"
	"github.com/ademuri/festival-lineup/internal/logging"
)

var ErrNilCollection = errors.New("no listening data to build a lineup from")

// Generate builds a lineup from one listener's collected data. The result
// depends only on the inputs.
func Generate(data *catalog.Collection, cfg Config) (*Lineup, error) {
	if data == nil {
		return nil, ErrNilCollection
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generating lineup: %w", err)
	}
	log := logging.With("lineup")

	profile := genre.BuildProfile(data.TopArtists.All())
	log.Info().Strs("dominant_genres", profile.Dominant).Msg("Built genre profile")

	scored := ScoreAll(data, profile, cfg)
	log.Info().Int("artists", len(scored)).Msg("Scored unique artists")

	tiers := Classify(scored, cfg)
	log.Info().
		Int("headliners", len(tiers.Headliners)).
		Int("supporting", len(tiers.Supporting)).
		Msg("Classified tiers")

	discovery := SelectDiscovery(data.Related, profile, KnownIDs(scored), cfg)
	log.Info().
		Int("discovery", len(discovery)).
		Bool("fallback", data.IsFallback()).
		Msg("Selected discovery artists")

	days := AssignDays(tiers.Headliners, tiers.Supporting, discovery, cfg)

	return &Lineup{
		UserName:       data.User.DisplayName,
		Days:           days,
		DominantGenres: profile.Dominant,
		TotalArtists:   len(tiers.Headliners) + len(tiers.Supporting) + len(discovery),
	}, nil
}
