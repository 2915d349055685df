package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/shelfie-bot/shelfie/internal/repositories/session Repository

import (
	"context"

	"github.com/shelfie-bot/shelfie/internal/models"
)

// Repository defines the interface for session data persistence
type Repository interface {
	// SaveSession persists a session row
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves the active session for a guild, assembled with
	// its membership and suggestion facts
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// DeleteSession removes a session row and all of its facts
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error

	// GetActiveSessions retrieves every active session across guilds
	GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error)

	// SaveMembership persists a user's current join state for a guild
	SaveMembership(ctx context.Context, input *SaveMembershipInput) error

	// AddSuggestion persists a suggestion only if its key is absent
	AddSuggestion(ctx context.Context, input *AddSuggestionInput) (*AddSuggestionOutput, error)

	// SaveSuggestion overwrites an existing suggestion
	SaveSuggestion(ctx context.Context, input *SaveSuggestionInput) error

	// DeleteSuggestions removes all suggestions for a guild
	DeleteSuggestions(ctx context.Context, input *DeleteSuggestionsInput) error
}
