package club

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfie-bot/shelfie/internal/models"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		key     string
		display string
	}{
		{name: "already clean", title: "Dune", key: "dune", display: "Dune"},
		{name: "surrounding whitespace", title: "  dune ", key: "dune", display: "Dune"},
		{name: "internal whitespace collapsed", title: "project   hail  mary", key: "project hail mary", display: "Project Hail Mary"},
		{name: "mixed case", title: "tHe DiSpOsSeSsEd", key: "the dispossessed", display: "The Dispossessed"},
		{name: "blank", title: "   ", key: "", display: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, display := normalizeTitle(tt.title)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.display, display)
		})
	}
}

func suggestionFixture(key, title string, firstSuggestedAt time.Time) *models.Suggestion {
	return &models.Suggestion{
		GuildID:          "guild-1",
		Key:              key,
		Title:            title,
		SuggestedBy:      "user-a",
		Proposers:        []string{"user-a"},
		Count:            1,
		FirstSuggestedAt: firstSuggestedAt,
	}
}

func TestResolvePoll(t *testing.T) {
	base := time.Date(2024, 1, 4, 18, 0, 0, 0, time.UTC)

	suggestions := map[string]*models.Suggestion{
		"dune":     suggestionFixture("dune", "Dune", base),
		"hyperion": suggestionFixture("hyperion", "Hyperion", base.Add(time.Minute)),
	}

	t.Run("highest ballot count wins", func(t *testing.T) {
		ballots := map[string]models.PollBallot{
			"user-a": {Choice: "hyperion", CastAt: base.Add(time.Hour)},
			"user-b": {Choice: "hyperion", CastAt: base.Add(2 * time.Hour)},
			"user-c": {Choice: "dune", CastAt: base.Add(time.Minute)},
		}

		winner := resolvePoll(suggestions, ballots)
		require.NotNil(t, winner)
		assert.Equal(t, "hyperion", winner.Key)
	})

	t.Run("tie goes to earliest first supporting ballot", func(t *testing.T) {
		ballots := map[string]models.PollBallot{
			"user-a": {Choice: "hyperion", CastAt: base.Add(time.Minute)},
			"user-b": {Choice: "dune", CastAt: base.Add(time.Hour)},
		}

		winner := resolvePoll(suggestions, ballots)
		require.NotNil(t, winner)
		assert.Equal(t, "hyperion", winner.Key)
	})

	t.Run("overwritten ballot moves first support forward", func(t *testing.T) {
		// user-a switched from hyperion to dune at a later time, so
		// hyperion has no support and dune's ballot keeps its cast time
		ballots := map[string]models.PollBallot{
			"user-a": {Choice: "dune", CastAt: base.Add(2 * time.Hour)},
		}

		winner := resolvePoll(suggestions, ballots)
		require.NotNil(t, winner)
		assert.Equal(t, "dune", winner.Key)
	})

	t.Run("no ballots falls back to earliest suggestion", func(t *testing.T) {
		winner := resolvePoll(suggestions, map[string]models.PollBallot{})
		require.NotNil(t, winner)
		assert.Equal(t, "dune", winner.Key)
	})

	t.Run("ballot for removed candidate is ignored", func(t *testing.T) {
		ballots := map[string]models.PollBallot{
			"user-a": {Choice: "neuromancer", CastAt: base.Add(time.Minute)},
			"user-b": {Choice: "hyperion", CastAt: base.Add(time.Hour)},
		}

		winner := resolvePoll(suggestions, ballots)
		require.NotNil(t, winner)
		assert.Equal(t, "hyperion", winner.Key)
	})

	t.Run("full tie is deterministic by key", func(t *testing.T) {
		same := map[string]*models.Suggestion{
			"dune":     suggestionFixture("dune", "Dune", base),
			"hyperion": suggestionFixture("hyperion", "Hyperion", base),
		}

		winner := resolvePoll(same, map[string]models.PollBallot{})
		require.NotNil(t, winner)
		assert.Equal(t, "dune", winner.Key)
	})

	t.Run("no candidates", func(t *testing.T) {
		winner := resolvePoll(map[string]*models.Suggestion{}, map[string]models.PollBallot{})
		assert.Nil(t, winner)
	})
}

func TestSuggestionListSortedByKey(t *testing.T) {
	base := time.Date(2024, 1, 4, 18, 0, 0, 0, time.UTC)

	list := suggestionList(map[string]*models.Suggestion{
		"hyperion": suggestionFixture("hyperion", "Hyperion", base),
		"dune":     suggestionFixture("dune", "Dune", base),
	})

	require.Len(t, list, 2)
	assert.Equal(t, "dune", list[0].Key)
	assert.Equal(t, "hyperion", list[1].Key)
}
