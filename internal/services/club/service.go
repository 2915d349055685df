package club

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/common/uuid"
	"github.com/shelfie-bot/shelfie/internal/models"
	sessionRepo "github.com/shelfie-bot/shelfie/internal/repositories/session"
)

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	registry    *Registry
	clock       clock.Clock
	uuid        uuid.UUID
	announcer   Announcer
	logger      *zap.Logger
	pollWindow  time.Duration
}

// New creates a new club service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pollWindow := cfg.PollWindow
	if pollWindow <= 0 {
		pollWindow = defaultPollWindow
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		registry:    cfg.Registry,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
		announcer:   cfg.Announcer,
		logger:      logger,
		pollWindow:  pollWindow,
	}, nil
}

// loadSession returns the guild's cached session, hydrating the registry
// entry from the repository on first touch. Must be called with the
// guild's guard held. A nil session with a nil error means the guild has
// no active session.
func (s *service) loadSession(ctx context.Context, guard *Guard, guildID string) (*models.Session, error) {
	sess, hydrated := guard.Session()
	if hydrated {
		return sess, nil
	}

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		GuildID: guildID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			guard.Remove()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session for guild %s: %w", guildID, err)
	}

	guard.Put(sess)
	return sess, nil
}

// sessionLength converts a duration amount and unit into a wall-clock
// length. Weeks are 7 days; months use a fixed 30-day approximation.
func sessionLength(amount int, unit string) (time.Duration, error) {
	if amount <= 0 {
		return 0, ErrInvalidDuration
	}

	switch normalizeUnit(unit) {
	case DurationWeeks:
		return time.Duration(amount) * 7 * 24 * time.Hour, nil
	case DurationMonths:
		return time.Duration(amount) * 30 * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidDuration
	}
}

// CreateSession creates a new reading session for a guild
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.GuildID == "" {
		return nil, errors.New("guild ID cannot be empty")
	}

	if input.Title == "" {
		return nil, errors.New("title cannot be empty")
	}

	length, err := sessionLength(input.DurationAmount, input.DurationUnit)
	if err != nil {
		return nil, err
	}

	startTime, err := time.Parse(startTimeLayout, fmt.Sprintf("%s %s", input.StartDate, input.StartTime))
	if err != nil {
		return nil, ErrInvalidStartTime
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	existing, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSessionExists
	}

	now := s.clock.Now()
	joinDeadline := now.Add(joinWindow)

	sess := &models.Session{
		ID:            s.uuid.NewUUID(),
		GuildID:       input.GuildID,
		ChannelID:     input.ChannelID,
		Title:         input.Title,
		Description:   input.Description,
		StartTime:     startTime,
		EndTime:       startTime.Add(length),
		JoinDeadline:  &joinDeadline,
		VotingEnabled: input.VotingEnabled,
		Phase:         models.PhaseJoining,
		Members:       make(map[string]bool),
		Suggestions:   make(map[string]*models.Suggestion),
		PollBallots:   make(map[string]models.PollBallot),
		CreatedAt:     now,
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: sess,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(sess)

	return &CreateSessionOutput{
		Session: sess.Clone(),
	}, nil
}

// JoinSession opts a user in during the join phase
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return nil, errors.New("input, guild ID and user ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseJoining || sess.JoinDeadline == nil || s.clock.Now().After(*sess.JoinDeadline) {
		return nil, ErrPhaseClosed
	}

	if sess.IsMember(input.UserID) {
		return &JoinSessionOutput{AlreadyMember: true}, nil
	}

	// The membership fact must be durable before the join is acknowledged
	err = s.sessionRepo.SaveMembership(ctx, &sessionRepo.SaveMembershipInput{
		GuildID:  input.GuildID,
		UserID:   input.UserID,
		IsMember: true,
	})
	if err != nil {
		return nil, err
	}

	sess.Members[input.UserID] = true

	return &JoinSessionOutput{}, nil
}

// LeaveSession opts a user out during the join phase
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return nil, errors.New("input, guild ID and user ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseJoining || sess.JoinDeadline == nil || s.clock.Now().After(*sess.JoinDeadline) {
		return nil, ErrPhaseClosed
	}

	wasMember := sess.IsMember(input.UserID)

	err = s.sessionRepo.SaveMembership(ctx, &sessionRepo.SaveMembershipInput{
		GuildID:  input.GuildID,
		UserID:   input.UserID,
		IsMember: false,
	})
	if err != nil {
		return nil, err
	}

	sess.Members[input.UserID] = false

	return &LeaveSessionOutput{WasMember: wasMember}, nil
}

// SuggestBook records a member's book suggestion during the join phase
func (s *service) SuggestBook(ctx context.Context, input *SuggestBookInput) (*SuggestBookOutput, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return nil, errors.New("input, guild ID and user ID cannot be empty")
	}

	key, display := normalizeTitle(input.Title)
	if key == "" {
		return nil, errors.New("title cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseJoining {
		return nil, ErrPhaseClosed
	}

	if !sess.IsMember(input.UserID) {
		return nil, ErrNotAMember
	}

	if existing := sess.Suggestions[key]; existing != nil {
		return s.bumpSuggestion(ctx, sess, existing, input.UserID)
	}

	suggestion := &models.Suggestion{
		GuildID:          input.GuildID,
		Key:              key,
		Title:            display,
		SuggestedBy:      input.UserID,
		Proposers:        []string{input.UserID},
		Count:            1,
		FirstSuggestedAt: s.clock.Now(),
	}

	out, err := s.sessionRepo.AddSuggestion(ctx, &sessionRepo.AddSuggestionInput{
		Suggestion: suggestion,
	})
	if err != nil {
		return nil, err
	}

	// The insert-if-absent lost a race only if the store was written
	// outside this process; fall back to a tally bump against the stored
	// suggestion so the unique key is never clobbered.
	if !out.Created {
		stored, getErr := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
			GuildID: input.GuildID,
		})
		if getErr != nil {
			return nil, getErr
		}
		if existing := stored.Suggestions[key]; existing != nil {
			sess.Suggestions[key] = existing
			return s.bumpSuggestion(ctx, sess, existing, input.UserID)
		}
	}

	sess.Suggestions[key] = suggestion

	return &SuggestBookOutput{
		Suggestion: suggestionCopy(suggestion),
	}, nil
}

// bumpSuggestion counts one more distinct proposer for an existing
// suggestion. The first proposer keeps the attribution.
func (s *service) bumpSuggestion(ctx context.Context, sess *models.Session, existing *models.Suggestion, userID string) (*SuggestBookOutput, error) {
	for _, proposer := range existing.Proposers {
		if proposer == userID {
			// Re-suggesting is a no-op; a user cannot inflate the tally
			return &SuggestBookOutput{
				Suggestion: suggestionCopy(existing),
				Duplicate:  true,
			}, nil
		}
	}

	updated := *existing
	updated.Proposers = append(append([]string{}, existing.Proposers...), userID)
	updated.Count = len(updated.Proposers)

	err := s.sessionRepo.SaveSuggestion(ctx, &sessionRepo.SaveSuggestionInput{
		Suggestion: &updated,
	})
	if err != nil {
		return nil, err
	}

	*existing = updated

	return &SuggestBookOutput{
		Suggestion: suggestionCopy(existing),
		Duplicate:  true,
	}, nil
}

// StartEndVote initiates an early-termination vote
func (s *service) StartEndVote(ctx context.Context, input *StartEndVoteInput) (*StartEndVoteOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.EndVote != nil {
		return nil, ErrVoteInProgress
	}

	clone := sess.Clone()
	clone.EndVote = &models.EndVote{
		StartedAt: s.clock.Now(),
		Ballots:   make(map[string]time.Time),
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	return &StartEndVoteOutput{
		MemberCount: clone.MemberCount(),
	}, nil
}

// CastEndVote records a member's yes ballot and closes the session when
// ballots cast strictly exceed half the current member count
func (s *service) CastEndVote(ctx context.Context, input *CastEndVoteInput) (*CastEndVoteOutput, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return nil, errors.New("input, guild ID and user ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.EndVote == nil {
		return nil, ErrNoActiveVote
	}

	if !sess.IsMember(input.UserID) {
		return nil, ErrNotAMember
	}

	clone := sess.Clone()
	if _, voted := clone.EndVote.Ballots[input.UserID]; !voted {
		clone.EndVote.Ballots[input.UserID] = s.clock.Now()
	}

	// Both counts are read inside the same critical section so a single
	// quorum check is internally consistent. The denominator is the live
	// member count, not a snapshot from vote initiation: a member leaving
	// mid-vote changes the quorum. That is the specified policy.
	ballotsCast := len(clone.EndVote.Ballots)
	memberCount := clone.MemberCount()
	passed := ballotsCast*2 > memberCount

	if passed {
		err = s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{
			GuildID: input.GuildID,
		})
		if err != nil {
			return nil, err
		}

		guard.Remove()

		s.announce(ctx, &AnnouncePhaseChangeInput{
			GuildID:   sess.GuildID,
			ChannelID: sess.ChannelID,
			MessageID: sess.MessageID,
			Phase:     models.PhaseClosed,
			Title:     sess.Title,
			EarlyEnd:  true,
		})

		return &CastEndVoteOutput{
			BallotsCast: ballotsCast,
			MemberCount: memberCount,
			Passed:      true,
		}, nil
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	return &CastEndVoteOutput{
		BallotsCast: ballotsCast,
		MemberCount: memberCount,
	}, nil
}

// CastBookVote records a member's choice in the book-selection poll.
// A later ballot from the same member overwrites the earlier one.
func (s *service) CastBookVote(ctx context.Context, input *CastBookVoteInput) (*CastBookVoteOutput, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return nil, errors.New("input, guild ID and user ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseSelecting {
		return nil, ErrPhaseClosed
	}

	if !sess.IsMember(input.UserID) {
		return nil, ErrNotAMember
	}

	key, _ := normalizeTitle(input.Title)
	choice := sess.Suggestions[key]
	if choice == nil {
		return nil, ErrUnknownCandidate
	}

	clone := sess.Clone()
	clone.PollBallots[input.UserID] = models.PollBallot{
		Choice: key,
		CastAt: s.clock.Now(),
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	return &CastBookVoteOutput{
		Choice: suggestionCopy(choice),
	}, nil
}

// AdvanceJoinPhase closes the join phase once its deadline has elapsed.
// Advancing is idempotent: the deadline field is cleared by the first
// advance, so repeated sweeps are no-ops.
func (s *service) AdvanceJoinPhase(ctx context.Context, input *AdvanceJoinPhaseInput) (*AdvanceJoinPhaseOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseJoining || sess.JoinDeadline == nil {
		return &AdvanceJoinPhaseOutput{Advanced: false, NewPhase: sess.Phase}, nil
	}

	now := s.clock.Now()
	if now.Before(*sess.JoinDeadline) {
		return &AdvanceJoinPhaseOutput{Advanced: false, NewPhase: sess.Phase}, nil
	}

	clone := sess.Clone()
	clone.JoinDeadline = nil

	announcement := &AnnouncePhaseChangeInput{
		GuildID:   clone.GuildID,
		ChannelID: clone.ChannelID,
		MessageID: clone.MessageID,
		Title:     clone.Title,
	}

	if clone.VotingEnabled && len(clone.Suggestions) > 0 {
		pollDeadline := now.Add(s.pollWindow)
		clone.Phase = models.PhaseSelecting
		clone.PollDeadline = &pollDeadline

		announcement.Phase = models.PhaseSelecting
		announcement.Candidates = suggestionList(clone.Suggestions)
		announcement.PollDeadline = &pollDeadline
	} else {
		clone.Phase = models.PhaseActive
		clone.PollDeadline = nil

		announcement.Phase = models.PhaseActive
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	s.announce(ctx, announcement)

	return &AdvanceJoinPhaseOutput{
		Advanced: true,
		NewPhase: clone.Phase,
	}, nil
}

// AdvancePollPhase resolves the book-selection poll once its deadline has
// elapsed, announces the winner and clears the suggestion state. The
// session row is kept with the poll fields reset.
func (s *service) AdvancePollPhase(ctx context.Context, input *AdvancePollPhaseInput) (*AdvancePollPhaseOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	if sess.Phase != models.PhaseSelecting || sess.PollDeadline == nil {
		return &AdvancePollPhaseOutput{Advanced: false}, nil
	}

	if s.clock.Now().Before(*sess.PollDeadline) {
		return &AdvancePollPhaseOutput{Advanced: false}, nil
	}

	winner := resolvePoll(sess.Suggestions, sess.PollBallots)

	clone := sess.Clone()
	clone.Phase = models.PhaseActive
	clone.PollDeadline = nil
	clone.PollBallots = make(map[string]models.PollBallot)
	clone.Suggestions = make(map[string]*models.Suggestion)

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	err = s.sessionRepo.DeleteSuggestions(ctx, &sessionRepo.DeleteSuggestionsInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	s.announce(ctx, &AnnouncePhaseChangeInput{
		GuildID:   clone.GuildID,
		ChannelID: clone.ChannelID,
		MessageID: clone.MessageID,
		Phase:     models.PhaseActive,
		Title:     clone.Title,
		Winner:    winner,
	})

	return &AdvancePollPhaseOutput{
		Advanced: true,
		Winner:   winner,
	}, nil
}

// CloseSession ends a session whose end time has elapsed
func (s *service) CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}

	// The session can already be gone when an end vote closed it between
	// the sweeper reading the row and reaching this critical section
	if sess == nil {
		return &CloseSessionOutput{Closed: false}, nil
	}

	if sess.Phase != models.PhaseActive || s.clock.Now().Before(sess.EndTime) {
		return &CloseSessionOutput{Closed: false}, nil
	}

	err = s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		return nil, err
	}

	guard.Remove()

	s.announce(ctx, &AnnouncePhaseChangeInput{
		GuildID:   sess.GuildID,
		ChannelID: sess.ChannelID,
		MessageID: sess.MessageID,
		Phase:     models.PhaseClosed,
		Title:     sess.Title,
	})

	return &CloseSessionOutput{Closed: true}, nil
}

// GetSession returns a snapshot of the guild's active session
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	return &GetSessionOutput{
		Session: sess.Clone(),
	}, nil
}

// SetSessionMessage records the rendered join/poll message reference
func (s *service) SetSessionMessage(ctx context.Context, input *SetSessionMessageInput) (*SetSessionMessageOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guard := s.registry.Lock(input.GuildID)
	defer guard.Unlock()

	sess, err := s.loadSession(ctx, guard, input.GuildID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	clone := sess.Clone()
	if input.ChannelID != "" {
		clone.ChannelID = input.ChannelID
	}
	clone.MessageID = input.MessageID

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: clone,
	})
	if err != nil {
		return nil, err
	}

	guard.Put(clone)

	return &SetSessionMessageOutput{}, nil
}

// announce invokes the chat layer's announcement hook. Announcement
// failure never fails or retries the transition; the phase change has
// already been committed.
func (s *service) announce(ctx context.Context, input *AnnouncePhaseChangeInput) {
	if s.announcer == nil {
		return
	}

	if err := s.announcer.AnnouncePhaseChange(ctx, input); err != nil {
		s.logger.Warn("phase-change announcement failed",
			zap.String("guild_id", input.GuildID),
			zap.String("phase", string(input.Phase)),
			zap.Error(err))
	}
}
