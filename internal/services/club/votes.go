package club

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shelfie-bot/shelfie/internal/models"
)

// normalizeTitle trims and title-cases a suggested title, returning the
// case-insensitive dedup key and the display form. "dune  " and "DUNE"
// both normalize to key "dune", display "Dune".
func normalizeTitle(title string) (key, display string) {
	trimmed := strings.Join(strings.Fields(title), " ")
	if trimmed == "" {
		return "", ""
	}

	display = cases.Title(language.English).String(trimmed)
	key = strings.ToLower(display)
	return key, display
}

// normalizeUnit maps user-supplied duration unit spellings onto the two
// supported units. Anything else is rejected by the caller.
func normalizeUnit(unit string) DurationUnit {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "week", "weeks":
		return DurationWeeks
	case "month", "months":
		return DurationMonths
	default:
		return DurationUnit("")
	}
}

func suggestionCopy(suggestion *models.Suggestion) *models.Suggestion {
	if suggestion == nil {
		return nil
	}
	copied := *suggestion
	copied.Proposers = append([]string{}, suggestion.Proposers...)
	return &copied
}

// suggestionList returns the candidates sorted by key for stable rendering
func suggestionList(suggestions map[string]*models.Suggestion) []*models.Suggestion {
	list := make([]*models.Suggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		list = append(list, suggestionCopy(suggestion))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Key < list[j].Key
	})
	return list
}

// resolvePoll picks the poll winner: highest ballot count, ties broken by
// the earliest first supporting ballot among the tied candidates. A
// residual tie (identical count and first-ballot time) falls back to the
// lexicographically smaller key so resolution is fully deterministic.
// Candidates exist whenever this runs; the selecting phase is only
// entered with at least one suggestion.
func resolvePoll(suggestions map[string]*models.Suggestion, ballots map[string]models.PollBallot) *models.Suggestion {
	if len(suggestions) == 0 {
		return nil
	}

	counts := make(map[string]int, len(suggestions))
	firstBallot := make(map[string]time.Time, len(suggestions))

	for _, ballot := range ballots {
		if _, ok := suggestions[ballot.Choice]; !ok {
			continue
		}
		counts[ballot.Choice]++
		first, seen := firstBallot[ballot.Choice]
		if !seen || ballot.CastAt.Before(first) {
			firstBallot[ballot.Choice] = ballot.CastAt
		}
	}

	keys := make([]string, 0, len(suggestions))
	for key := range suggestions {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]

		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}

		firstA, okA := firstBallot[a]
		firstB, okB := firstBallot[b]
		if okA && okB && !firstA.Equal(firstB) {
			return firstA.Before(firstB)
		}
		if okA != okB {
			return okA
		}

		// No ballots at all: fall back to suggestion age, then key
		if sa, sb := suggestions[a], suggestions[b]; !sa.FirstSuggestedAt.Equal(sb.FirstSuggestedAt) {
			return sa.FirstSuggestedAt.Before(sb.FirstSuggestedAt)
		}
		return a < b
	})

	return suggestionCopy(suggestions[keys[0]])
}
