package club

import "context"

// Service defines the interface for reading-session operations. Member
// actions and the sweeper both go through these entry points; there is
// exactly one code path for every phase transition.
type Service interface {
	// CreateSession creates a new reading session for a guild
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession opts a user in during the join phase
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// LeaveSession opts a user out during the join phase
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// SuggestBook records a member's book suggestion during the join phase
	SuggestBook(ctx context.Context, input *SuggestBookInput) (*SuggestBookOutput, error)

	// StartEndVote initiates an early-termination vote
	StartEndVote(ctx context.Context, input *StartEndVoteInput) (*StartEndVoteOutput, error)

	// CastEndVote records a member's yes ballot in the early-termination
	// vote and closes the session if the vote reaches a strict majority
	CastEndVote(ctx context.Context, input *CastEndVoteInput) (*CastEndVoteOutput, error)

	// CastBookVote records a member's choice in the book-selection poll
	CastBookVote(ctx context.Context, input *CastBookVoteInput) (*CastBookVoteOutput, error)

	// AdvanceJoinPhase closes the join phase once its deadline has
	// elapsed, moving to the selection poll or straight to active
	AdvanceJoinPhase(ctx context.Context, input *AdvanceJoinPhaseInput) (*AdvanceJoinPhaseOutput, error)

	// AdvancePollPhase resolves the book-selection poll once its deadline
	// has elapsed
	AdvancePollPhase(ctx context.Context, input *AdvancePollPhaseInput) (*AdvancePollPhaseOutput, error)

	// CloseSession ends a session whose end time has elapsed
	CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error)

	// GetSession returns a snapshot of the guild's active session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// SetSessionMessage records the rendered join/poll message so
	// announcements can reference it
	SetSessionMessage(ctx context.Context, input *SetSessionMessageInput) (*SetSessionMessageOutput, error)
}

// Announcer is the hook the chat layer implements to render phase-change
// announcements. The service never renders user-facing text itself, and a
// failed announcement never fails the transition.
type Announcer interface {
	AnnouncePhaseChange(ctx context.Context, input *AnnouncePhaseChangeInput) error
}
