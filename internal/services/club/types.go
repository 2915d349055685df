package club

import (
	"time"

	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/common/uuid"
	"github.com/shelfie-bot/shelfie/internal/models"
	sessionRepo "github.com/shelfie-bot/shelfie/internal/repositories/session"
)

const (
	// joinWindow is the fixed offset from creation time to the join-phase
	// deadline, independent of session duration
	joinWindow = 72 * time.Hour

	// defaultPollWindow is how long the book-selection poll stays open
	// after the join phase closes
	defaultPollWindow = 48 * time.Hour

	// startTimeLayout is the layout for session start date and time input
	startTimeLayout = "2006-01-02 15:04"
)

// DurationUnit is the unit of a session duration
type DurationUnit string

const (
	// DurationWeeks counts the session length in 7-day weeks
	DurationWeeks DurationUnit = "weeks"

	// DurationMonths counts the session length in fixed 30-day months
	DurationMonths DurationUnit = "months"
)

// Config holds configuration for the club service
type Config struct {
	// Session repository
	SessionRepo sessionRepo.Repository

	// In-memory session registry, shared with the sweeper
	Registry *Registry

	// Clock source for all time reads
	Clock clock.Clock

	// UUID generator for session IDs
	UUID uuid.UUID

	// Announcer for phase-change messages; optional
	Announcer Announcer

	// Logger; defaults to a nop logger
	Logger *zap.Logger

	// PollWindow overrides how long the selection poll stays open
	PollWindow time.Duration
}

type CreateSessionInput struct {
	GuildID        string
	ChannelID      string
	CreatedBy      string
	Title          string
	Description    string
	StartDate      string // YYYY-MM-DD
	StartTime      string // HH:MM, 24-hour
	DurationAmount int
	DurationUnit   string
	VotingEnabled  bool
}

type CreateSessionOutput struct {
	Session *models.Session
}

type JoinSessionInput struct {
	GuildID string
	UserID  string
}

type JoinSessionOutput struct {
	// AlreadyMember is true when the join was an idempotent no-op
	AlreadyMember bool
}

type LeaveSessionInput struct {
	GuildID string
	UserID  string
}

type LeaveSessionOutput struct {
	// WasMember is false when the user had never joined
	WasMember bool
}

type SuggestBookInput struct {
	GuildID string
	UserID  string
	Title   string
}

type SuggestBookOutput struct {
	Suggestion *models.Suggestion

	// Duplicate is true when the title was already suggested and the
	// tally was bumped instead of a new candidate being created
	Duplicate bool
}

type StartEndVoteInput struct {
	GuildID   string
	StartedBy string
}

type StartEndVoteOutput struct {
	MemberCount int
}

type CastEndVoteInput struct {
	GuildID string
	UserID  string
}

type CastEndVoteOutput struct {
	BallotsCast int
	MemberCount int

	// Passed is true when the ballots cast strictly exceed half the
	// current member count; the session has then been closed
	Passed bool
}

type CastBookVoteInput struct {
	GuildID string
	UserID  string
	Title   string
}

type CastBookVoteOutput struct {
	Choice *models.Suggestion
}

type AdvanceJoinPhaseInput struct {
	GuildID string
}

type AdvanceJoinPhaseOutput struct {
	// Advanced is false when the deadline has not elapsed or the phase
	// was already advanced
	Advanced bool
	NewPhase models.SessionPhase
}

type AdvancePollPhaseInput struct {
	GuildID string
}

type AdvancePollPhaseOutput struct {
	Advanced bool
	Winner   *models.Suggestion
}

type CloseSessionInput struct {
	GuildID string
}

type CloseSessionOutput struct {
	Closed bool
}

type GetSessionInput struct {
	GuildID string
}

type GetSessionOutput struct {
	Session *models.Session
}

type SetSessionMessageInput struct {
	GuildID   string
	ChannelID string
	MessageID string
}

type SetSessionMessageOutput struct {
}

// AnnouncePhaseChangeInput carries everything the chat layer needs to
// render a phase-change message without reaching back into the service
type AnnouncePhaseChangeInput struct {
	GuildID   string
	ChannelID string
	MessageID string
	Phase     models.SessionPhase
	Title     string

	// Candidates is set when the selection poll opens
	Candidates []*models.Suggestion

	// PollDeadline is set when the selection poll opens
	PollDeadline *time.Time

	// Winner is set when the selection poll resolves
	Winner *models.Suggestion

	// EarlyEnd is true when the session closed by quorum vote rather
	// than by reaching its end time
	EarlyEnd bool
}
