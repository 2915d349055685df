package models

import (
	"time"
)

// SessionPhase represents the current phase of a reading session
type SessionPhase string

const (
	// PhaseJoining indicates the session is accepting members and suggestions
	PhaseJoining SessionPhase = "joining"

	// PhaseSelecting indicates the book-selection poll is live
	PhaseSelecting SessionPhase = "selecting"

	// PhaseActive indicates the session is running; membership is frozen
	PhaseActive SessionPhase = "active"

	// PhaseClosed is the terminal phase. It is never stored: a closed
	// session's row is deleted. It exists so phase-change announcements
	// can name it.
	PhaseClosed SessionPhase = "closed"
)

// PollBallot is one member's current choice in the book-selection poll.
// A member re-voting overwrites their previous ballot.
type PollBallot struct {
	// Choice is the normalized key of the chosen suggestion
	Choice string

	// CastAt is when this ballot was cast
	CastAt time.Time
}

// EndVote tracks an in-progress early-termination vote. A nil EndVote on a
// session means no vote is running.
type EndVote struct {
	// StartedAt is when the vote was initiated
	StartedAt time.Time

	// Ballots maps voter user ID to the time they voted yes
	Ballots map[string]time.Time
}

// Session represents a reading session for a guild. At most one session is
// active per guild at a time.
type Session struct {
	// ID is the unique identifier for this session
	ID string

	// GuildID is the Discord server/guild this session belongs to
	GuildID string

	// ChannelID is the channel where the session was created and where
	// phase-change announcements are posted
	ChannelID string

	// MessageID is the ID of the rendered join/poll message, if any
	MessageID string

	// Title is the session title
	Title string

	// Description is the session description
	Description string

	// StartTime is when the session is scheduled to start
	StartTime time.Time

	// EndTime is when the session is scheduled to end
	EndTime time.Time

	// JoinDeadline is when the join phase closes. Cleared once the join
	// phase has been advanced, which is what makes the advance idempotent.
	JoinDeadline *time.Time

	// PollDeadline is when the book-selection poll closes. Only set while
	// the session is in the selecting phase.
	PollDeadline *time.Time

	// VotingEnabled indicates whether a book-selection poll should run
	// after the join phase
	VotingEnabled bool

	// Phase is the current lifecycle phase
	Phase SessionPhase

	// Members maps user ID to join state: true for members, false for
	// explicit opt-outs. A user appears under exactly one value.
	// Rebuilt from the membership facts on load; not part of the row.
	Members map[string]bool `json:"-"`

	// Suggestions maps normalized title key to the suggestion.
	// Rebuilt from the suggestion facts on load; not part of the row.
	Suggestions map[string]*Suggestion `json:"-"`

	// EndVote is the in-progress early-termination vote, if any
	EndVote *EndVote

	// PollBallots maps user ID to their current poll ballot
	PollBallots map[string]PollBallot

	// CreatedAt is when the session was created
	CreatedAt time.Time
}

// MemberCount returns the number of users currently opted in.
func (s *Session) MemberCount() int {
	count := 0
	for _, isMember := range s.Members {
		if isMember {
			count++
		}
	}
	return count
}

// IsMember reports whether the user is currently opted in.
func (s *Session) IsMember(userID string) bool {
	return s.Members[userID]
}

// Clone returns a deep copy of the session. Operations mutate a clone,
// persist it, and only then swap it into the registry so a failed durable
// write leaves the cached session untouched.
func (s *Session) Clone() *Session {
	clone := *s

	clone.Members = make(map[string]bool, len(s.Members))
	for userID, isMember := range s.Members {
		clone.Members[userID] = isMember
	}

	clone.Suggestions = make(map[string]*Suggestion, len(s.Suggestions))
	for key, suggestion := range s.Suggestions {
		suggestionCopy := *suggestion
		clone.Suggestions[key] = &suggestionCopy
	}

	clone.PollBallots = make(map[string]PollBallot, len(s.PollBallots))
	for userID, ballot := range s.PollBallots {
		clone.PollBallots[userID] = ballot
	}

	if s.EndVote != nil {
		voteCopy := EndVote{
			StartedAt: s.EndVote.StartedAt,
			Ballots:   make(map[string]time.Time, len(s.EndVote.Ballots)),
		}
		for userID, castAt := range s.EndVote.Ballots {
			voteCopy.Ballots[userID] = castAt
		}
		clone.EndVote = &voteCopy
	}

	if s.JoinDeadline != nil {
		deadline := *s.JoinDeadline
		clone.JoinDeadline = &deadline
	}

	if s.PollDeadline != nil {
		deadline := *s.PollDeadline
		clone.PollDeadline = &deadline
	}

	return &clone
}
