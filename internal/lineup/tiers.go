package lineup

// Tiers partitions scored artists. Remaining artists keep their scored tier.
type Tiers struct {
	Headliners []ScoredArtist
	Supporting []ScoredArtist
	Remaining  []ScoredArtist
}

// Classify walks artists in order (best first). An artist headlines while
// headliner slots remain and its popularity clears the minimum; otherwise it
// supports while supporting slots remain. If too few artists clear the
// popularity gate, the best supporting artists are promoted to fill the
// headliner quota regardless of popularity.
func Classify(artists []ScoredArtist, cfg Config) Tiers {
	th := cfg.Thresholds
	var t Tiers

	for _, a := range artists {
		switch {
		case len(t.Headliners) < th.HeadlinerCount && a.Popularity >= th.HeadlinerMinPopularity:
			t.Headliners = append(t.Headliners, a.WithTier(Headliner))
		case len(t.Supporting) < th.SupportingCount:
			t.Supporting = append(t.Supporting, a.WithTier(Supporting))
		default:
			t.Remaining = append(t.Remaining, a)
		}
	}

	for len(t.Headliners) < th.HeadlinerCount && len(t.Supporting) > 0 {
		t.Headliners = append(t.Headliners, t.Supporting[0].WithTier(Headliner))
		t.Supporting = t.Supporting[1:]
	}

	return t
}

// KnownIDs is the set of artist IDs the listener already knows.
func KnownIDs(artists []ScoredArtist) map[string]struct{} {
	known := make(map[string]struct{}, len(artists))
	for _, a := range artists {
		known[a.ID] = struct{}{}
	}
	return known
}
