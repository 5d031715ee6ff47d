package lineup

import (
	"fmt"
	"strings"

	"github.com/ademuri/festival-lineup/internal/logging"
)

const (
	// differentGenreBonus favours supporting acts whose primary genre
	// differs from the headliner's.
	differentGenreBonus = 0.1
	// repeatGenrePenalty discourages repeating a primary genre already
	// supporting on the same day.
	repeatGenrePenalty = 0.05
)

type daySlot struct {
	date  string
	time  string
	theme string
}

var schedule = []daySlot{
	{"23rd JAN", "2pm - 11pm", "upbeat"},
	{"24th JAN", "1pm - 12pm", "experimental"},
	{"25th JAN", "1pm - 10pm", "emotional"},
}

func newDay(i int) Day {
	name := fmt.Sprintf("Day %d", i+1)
	slot := daySlot{date: name, time: "TBA", theme: "upbeat"}
	if i < len(schedule) {
		slot = schedule[i]
	}
	return Day{
		Name:  name,
		Date:  slot.date,
		Time:  slot.time,
		Theme: slot.theme,
	}
}

// AssignDays spreads the tiers over cfg.Days.Count days.
//
// Day i is headlined by headliner i. Days beyond the available headliners are
// headlined by the best headliner, or the best supporting act when there are
// none; that artist stays in the supporting pool. Supporting acts are dealt
// in rounds, each day taking the best remaining act by composite score
// adjusted for genre contrast. Discovery acts are dealt the same way but
// chosen by how many tags they share with the day's headliner.
func AssignDays(headliners, supporting, discovery []ScoredArtist, cfg Config) []Day {
	days := make([]Day, cfg.Days.Count)
	for i := range days {
		days[i] = newDay(i)
		switch {
		case i < len(headliners):
			days[i].Headliner = &headliners[i]
		case len(headliners) > 0:
			days[i].Headliner = &headliners[0]
		case len(supporting) > 0:
			days[i].Headliner = &supporting[0]
		}
	}

	pool := append([]ScoredArtist(nil), supporting...)
	for round := 0; round < cfg.Days.SupportingPerDay; round++ {
		for d := range days {
			if len(pool) == 0 {
				break
			}
			i := bestSupporting(&days[d], pool)
			days[d].Supporting = append(days[d].Supporting, pool[i])
			pool = append(pool[:i], pool[i+1:]...)
		}
	}

	pool = append([]ScoredArtist(nil), discovery...)
	for round := 0; round < cfg.Days.DiscoveryPerDay; round++ {
		for d := range days {
			if len(pool) == 0 {
				break
			}
			i := bestDiscovery(&days[d], pool)
			days[d].Discovery = append(days[d].Discovery, pool[i])
			pool = append(pool[:i], pool[i+1:]...)
		}
	}

	log := logging.With("lineup")
	for _, day := range days {
		log.Debug().
			Str("day", day.Name).
			Float64("strength", day.Strength()).
			Int("genre_variety", day.GenreVariety()).
			Msg("Assigned day")
	}

	return days
}

func bestSupporting(day *Day, pool []ScoredArtist) int {
	headlinerGenre := "unknown"
	if day.Headliner != nil {
		headlinerGenre = day.Headliner.PrimaryGenre()
	}
	placed := make(map[string]struct{}, len(day.Supporting))
	for _, a := range day.Supporting {
		placed[a.PrimaryGenre()] = struct{}{}
	}

	best, bestScore := 0, -1.0
	for i, a := range pool {
		score := a.CompositeScore
		g := a.PrimaryGenre()
		if g != headlinerGenre {
			score += differentGenreBonus
		}
		if _, ok := placed[g]; ok {
			score -= repeatGenrePenalty
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func bestDiscovery(day *Day, pool []ScoredArtist) int {
	headlinerTags := make(map[string]struct{})
	if day.Headliner != nil {
		for _, tag := range day.Headliner.Genres {
			headlinerTags[strings.ToLower(tag)] = struct{}{}
		}
	}

	best, bestOverlap := 0, -1
	for i, a := range pool {
		overlap := 0
		for _, tag := range a.Genres {
			if _, ok := headlinerTags[strings.ToLower(tag)]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	return best
}
