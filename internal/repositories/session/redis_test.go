package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/shelfie-bot/shelfie/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newTestSession() *models.Session {
	joinDeadline := s.testNow.Add(72 * time.Hour)

	return &models.Session{
		ID:            "test-session-id",
		GuildID:       "test-guild-id",
		ChannelID:     "test-channel-id",
		Title:         "Dune",
		Description:   "January read",
		StartTime:     s.testNow,
		EndTime:       s.testNow.Add(14 * 24 * time.Hour),
		JoinDeadline:  &joinDeadline,
		VotingEnabled: true,
		Phase:         models.PhaseJoining,
		Members:       map[string]bool{},
		Suggestions:   map[string]*models.Suggestion{},
		PollBallots:   map[string]models.PollBallot{},
		CreatedAt:     s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSession() {
	sess := s.newTestSession()

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-session-id", retrieved.ID)
	s.Equal("test-guild-id", retrieved.GuildID)
	s.Equal("test-channel-id", retrieved.ChannelID)
	s.Equal(models.PhaseJoining, retrieved.Phase)
	s.True(retrieved.VotingEnabled)
	s.Require().NotNil(retrieved.JoinDeadline)
	s.Equal(sess.JoinDeadline.Unix(), retrieved.JoinDeadline.Unix())
	s.Equal(sess.EndTime.Unix(), retrieved.EndTime.Unix())
	s.Empty(retrieved.Members)
	s.Empty(retrieved.Suggestions)
}

func (s *RedisRepositoryTestSuite) TestGetSessionNotFound() {
	_, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "missing-guild",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestSessionRowExcludesFacts() {
	// Membership and suggestion facts live under their own keys; the row
	// must not duplicate them.
	sess := s.newTestSession()
	sess.Members["user-a"] = true
	sess.Suggestions["dune"] = &models.Suggestion{GuildID: sess.GuildID, Key: "dune"}

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	row, err := s.mr.Get("club:session:test-guild-id")
	s.Require().NoError(err)
	s.NotContains(row, "user-a")
	s.NotContains(row, "dune")
}

func (s *RedisRepositoryTestSuite) TestSaveMembershipRoundTrip() {
	sess := s.newTestSession()
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	err = s.repo.SaveMembership(context.Background(), &SaveMembershipInput{
		GuildID:  "test-guild-id",
		UserID:   "user-a",
		IsMember: true,
	})
	s.Require().NoError(err)

	err = s.repo.SaveMembership(context.Background(), &SaveMembershipInput{
		GuildID:  "test-guild-id",
		UserID:   "user-b",
		IsMember: false,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Equal(map[string]bool{"user-a": true, "user-b": false}, retrieved.Members)
	s.Equal(1, retrieved.MemberCount())
}

func (s *RedisRepositoryTestSuite) TestMembershipOverwrite() {
	// A join after a leave replaces the fact rather than stacking a second one
	err := s.repo.SaveMembership(context.Background(), &SaveMembershipInput{
		GuildID:  "test-guild-id",
		UserID:   "user-a",
		IsMember: false,
	})
	s.Require().NoError(err)

	err = s.repo.SaveMembership(context.Background(), &SaveMembershipInput{
		GuildID:  "test-guild-id",
		UserID:   "user-a",
		IsMember: true,
	})
	s.Require().NoError(err)

	sess := s.newTestSession()
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Len(retrieved.Members, 1)
	s.True(retrieved.Members["user-a"])
}

func (s *RedisRepositoryTestSuite) TestAddSuggestionInsertIfAbsent() {
	suggestion := &models.Suggestion{
		GuildID:          "test-guild-id",
		Key:              "dune",
		Title:            "Dune",
		SuggestedBy:      "user-a",
		Count:            1,
		FirstSuggestedAt: s.testNow,
	}

	out, err := s.repo.AddSuggestion(context.Background(), &AddSuggestionInput{
		Suggestion: suggestion,
	})
	s.Require().NoError(err)
	s.True(out.Created)

	// A second insert with the same key must not replace the first
	duplicate := &models.Suggestion{
		GuildID:     "test-guild-id",
		Key:         "dune",
		Title:       "Dune",
		SuggestedBy: "user-b",
		Count:       1,
	}

	out, err = s.repo.AddSuggestion(context.Background(), &AddSuggestionInput{
		Suggestion: duplicate,
	})
	s.Require().NoError(err)
	s.False(out.Created)

	sess := s.newTestSession()
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Require().Len(retrieved.Suggestions, 1)
	s.Equal("user-a", retrieved.Suggestions["dune"].SuggestedBy)
}

func (s *RedisRepositoryTestSuite) TestSaveSuggestionBumpsTally() {
	suggestion := &models.Suggestion{
		GuildID:          "test-guild-id",
		Key:              "dune",
		Title:            "Dune",
		SuggestedBy:      "user-a",
		Count:            1,
		FirstSuggestedAt: s.testNow,
	}

	_, err := s.repo.AddSuggestion(context.Background(), &AddSuggestionInput{
		Suggestion: suggestion,
	})
	s.Require().NoError(err)

	suggestion.Count = 2
	err = s.repo.SaveSuggestion(context.Background(), &SaveSuggestionInput{
		Suggestion: suggestion,
	})
	s.Require().NoError(err)

	sess := s.newTestSession()
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Equal(2, retrieved.Suggestions["dune"].Count)
	s.Equal("user-a", retrieved.Suggestions["dune"].SuggestedBy)
}

func (s *RedisRepositoryTestSuite) TestDeleteSuggestions() {
	_, err := s.repo.AddSuggestion(context.Background(), &AddSuggestionInput{
		Suggestion: &models.Suggestion{GuildID: "test-guild-id", Key: "dune", Title: "Dune", Count: 1},
	})
	s.Require().NoError(err)

	err = s.repo.DeleteSuggestions(context.Background(), &DeleteSuggestionsInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)

	sess := s.newTestSession()
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Empty(retrieved.Suggestions)
}

func (s *RedisRepositoryTestSuite) TestDeleteSessionRemovesAllKeys() {
	sess := s.newTestSession()
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess})
	s.Require().NoError(err)

	err = s.repo.SaveMembership(context.Background(), &SaveMembershipInput{
		GuildID:  "test-guild-id",
		UserID:   "user-a",
		IsMember: true,
	})
	s.Require().NoError(err)

	_, err = s.repo.AddSuggestion(context.Background(), &AddSuggestionInput{
		Suggestion: &models.Suggestion{GuildID: "test-guild-id", Key: "dune", Title: "Dune", Count: 1},
	})
	s.Require().NoError(err)

	err = s.repo.DeleteSession(context.Background(), &DeleteSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.GetSession(context.Background(), &GetSessionInput{
		GuildID: "test-guild-id",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)

	s.False(s.mr.Exists("club:members:test-guild-id"))
	s.False(s.mr.Exists("club:suggestions:test-guild-id"))

	out, err := s.repo.GetActiveSessions(context.Background(), &GetActiveSessionsInput{})
	s.Require().NoError(err)
	s.Empty(out.Sessions)
}

func (s *RedisRepositoryTestSuite) TestGetActiveSessions() {
	first := s.newTestSession()
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: first})
	s.Require().NoError(err)

	second := s.newTestSession()
	second.ID = "other-session-id"
	second.GuildID = "other-guild-id"
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: second})
	s.Require().NoError(err)

	out, err := s.repo.GetActiveSessions(context.Background(), &GetActiveSessionsInput{})
	s.Require().NoError(err)
	s.Len(out.Sessions, 2)

	guilds := map[string]bool{}
	for _, sess := range out.Sessions {
		guilds[sess.GuildID] = true
	}
	s.True(guilds["test-guild-id"])
	s.True(guilds["other-guild-id"])
}
