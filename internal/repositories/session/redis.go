package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/shelfie-bot/shelfie/internal/models"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix     = "club:session:"
	membersKeyPrefix     = "club:members:"
	suggestionsKeyPrefix = "club:suggestions:"
	sessionIndexKey      = "club:sessions"

	// Attempts per durable write before the failure surfaces
	writeAttempts = 3
)

// ErrSessionNotFound is returned when a guild has no session row
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// retryWrite retries a single durable write with exponential backoff. Only
// the failed write is retried; callers never re-run their business logic.
func (r *redisRepository) retryWrite(ctx context.Context, write func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, write()
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(writeAttempts))
	return err
}

// SaveSession persists a session row to Redis and maintains the guild index
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	// Marshal the session row; membership and suggestion facts are stored
	// under their own keys
	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.GuildID)

	err = r.retryWrite(ctx, func() error {
		pipe := r.client.Pipeline()
		pipe.Set(ctx, sessionKey, sessionJSON, 0)
		pipe.SAdd(ctx, sessionIndexKey, input.Session.GuildID)
		_, execErr := pipe.Exec(ctx)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves the session for a guild from Redis, assembling the
// in-memory object from the row plus the membership and suggestion facts
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.GuildID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Rebuild the member set from the membership facts
	membersKey := fmt.Sprintf("%s%s", membersKeyPrefix, input.GuildID)
	memberFields, err := r.client.HGetAll(ctx, membersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	sess.Members = make(map[string]bool, len(memberFields))
	for userID, value := range memberFields {
		isMember, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return nil, fmt.Errorf("corrupt membership fact for user %s: %w", userID, parseErr)
		}
		sess.Members[userID] = isMember
	}

	// Rebuild the suggestion tally
	suggestionsKey := fmt.Sprintf("%s%s", suggestionsKeyPrefix, input.GuildID)
	suggestionFields, err := r.client.HGetAll(ctx, suggestionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	sess.Suggestions = make(map[string]*models.Suggestion, len(suggestionFields))
	for key, value := range suggestionFields {
		var suggestion models.Suggestion
		if err := json.Unmarshal([]byte(value), &suggestion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal suggestion %s: %w", key, err)
		}
		sess.Suggestions[key] = &suggestion
	}

	return &sess, nil
}

// DeleteSession removes a session row and its facts from Redis
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	err := r.retryWrite(ctx, func() error {
		pipe := r.client.Pipeline()
		pipe.Del(ctx, fmt.Sprintf("%s%s", sessionKeyPrefix, input.GuildID))
		pipe.Del(ctx, fmt.Sprintf("%s%s", membersKeyPrefix, input.GuildID))
		pipe.Del(ctx, fmt.Sprintf("%s%s", suggestionsKeyPrefix, input.GuildID))
		pipe.SRem(ctx, sessionIndexKey, input.GuildID)
		_, execErr := pipe.Exec(ctx)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// GetActiveSessions retrieves every active session from Redis
func (r *redisRepository) GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error) {
	guildIDs, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session index: %w", err)
	}

	sessions := make([]*models.Session, 0, len(guildIDs))
	for _, guildID := range guildIDs {
		sess, err := r.GetSession(ctx, &GetSessionInput{GuildID: guildID})
		if err != nil {
			// Session was deleted between reading the index and the row
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return &GetActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}

// SaveMembership persists a user's join state for a guild
func (r *redisRepository) SaveMembership(ctx context.Context, input *SaveMembershipInput) error {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return errors.New("input, guild ID and user ID cannot be empty")
	}

	membersKey := fmt.Sprintf("%s%s", membersKeyPrefix, input.GuildID)

	err := r.retryWrite(ctx, func() error {
		return r.client.HSet(ctx, membersKey, input.UserID, strconv.FormatBool(input.IsMember)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}

	return nil
}

// AddSuggestion persists a suggestion only if no suggestion with the same
// normalized key exists, so concurrent duplicates never corrupt the key
func (r *redisRepository) AddSuggestion(ctx context.Context, input *AddSuggestionInput) (*AddSuggestionOutput, error) {
	if input == nil || input.Suggestion == nil {
		return nil, errors.New("input and suggestion cannot be nil")
	}

	suggestionJSON, err := json.Marshal(input.Suggestion)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	suggestionsKey := fmt.Sprintf("%s%s", suggestionsKeyPrefix, input.Suggestion.GuildID)

	var created bool
	err = r.retryWrite(ctx, func() error {
		var setErr error
		created, setErr = r.client.HSetNX(ctx, suggestionsKey, input.Suggestion.Key, suggestionJSON).Result()
		return setErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add suggestion: %w", err)
	}

	return &AddSuggestionOutput{
		Created: created,
	}, nil
}

// SaveSuggestion overwrites an existing suggestion, used for tally bumps
func (r *redisRepository) SaveSuggestion(ctx context.Context, input *SaveSuggestionInput) error {
	if input == nil || input.Suggestion == nil {
		return errors.New("input and suggestion cannot be nil")
	}

	suggestionJSON, err := json.Marshal(input.Suggestion)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	suggestionsKey := fmt.Sprintf("%s%s", suggestionsKeyPrefix, input.Suggestion.GuildID)

	err = r.retryWrite(ctx, func() error {
		return r.client.HSet(ctx, suggestionsKey, input.Suggestion.Key, suggestionJSON).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}

	return nil
}

// DeleteSuggestions removes every suggestion for a guild
func (r *redisRepository) DeleteSuggestions(ctx context.Context, input *DeleteSuggestionsInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	err := r.retryWrite(ctx, func() error {
		return r.client.Del(ctx, fmt.Sprintf("%s%s", suggestionsKeyPrefix, input.GuildID)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete suggestions: %w", err)
	}

	return nil
}
