package club

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/models"
	sessionRepo "github.com/shelfie-bot/shelfie/internal/repositories/session"
)

// defaultSweepInterval is how often the reconciliation sweep runs.
// Deadlines are evaluated lazily, so a transition can lag its nominal
// deadline by up to one interval.
const defaultSweepInterval = time.Hour

// SweeperConfig holds configuration for the reconciliation sweeper
type SweeperConfig struct {
	// Service whose transition entry points the sweep drives
	Service Service

	// Session repository; the durable rows are the sweep's ground truth
	SessionRepo sessionRepo.Repository

	// Clock source
	Clock clock.Clock

	// Interval overrides the sweep period
	Interval time.Duration

	// Logger; defaults to a nop logger
	Logger *zap.Logger
}

// sweepRule pairs a deadline field with the transition that fires when it
// elapses. Both timer loops of the lifecycle collapse into this one table.
type sweepRule struct {
	name    string
	due     func(sess *models.Session) *time.Time
	advance func(ctx context.Context, guildID string) (bool, error)
}

// Sweeper periodically scans the repository for sessions whose deadline
// has elapsed and drives the same phase transitions member actions use,
// so sessions advance even when nobody interacts with the bot.
type Sweeper struct {
	service     Service
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
	interval    time.Duration
	logger      *zap.Logger
	rules       []sweepRule
}

// NewSweeper creates a new reconciliation sweeper
func NewSweeper(cfg *SweeperConfig) (*Sweeper, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Service == nil {
		return nil, ClubError("service cannot be nil")
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	s := &Sweeper{
		service:     cfg.Service,
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		interval:    interval,
		logger:      logger,
	}

	s.rules = []sweepRule{
		{
			name: "join deadline",
			due: func(sess *models.Session) *time.Time {
				if sess.Phase != models.PhaseJoining {
					return nil
				}
				return sess.JoinDeadline
			},
			advance: func(ctx context.Context, guildID string) (bool, error) {
				out, err := s.service.AdvanceJoinPhase(ctx, &AdvanceJoinPhaseInput{GuildID: guildID})
				if err != nil {
					return false, err
				}
				return out.Advanced, nil
			},
		},
		{
			name: "poll deadline",
			due: func(sess *models.Session) *time.Time {
				if sess.Phase != models.PhaseSelecting {
					return nil
				}
				return sess.PollDeadline
			},
			advance: func(ctx context.Context, guildID string) (bool, error) {
				out, err := s.service.AdvancePollPhase(ctx, &AdvancePollPhaseInput{GuildID: guildID})
				if err != nil {
					return false, err
				}
				return out.Advanced, nil
			},
		},
		{
			name: "end time",
			due: func(sess *models.Session) *time.Time {
				if sess.Phase != models.PhaseActive {
					return nil
				}
				endTime := sess.EndTime
				return &endTime
			},
			advance: func(ctx context.Context, guildID string) (bool, error) {
				out, err := s.service.CloseSession(ctx, &CloseSessionInput{GuildID: guildID})
				if err != nil {
					return false, err
				}
				return out.Closed, nil
			},
		},
	}

	return s, nil
}

// Run sweeps on the configured interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep once on startup to catch deadlines that elapsed while the
	// process was down
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one reconciliation pass. A failure for one guild is
// logged and left for the next tick; it never blocks progress for the
// other guilds.
func (s *Sweeper) Sweep(ctx context.Context) {
	out, err := s.sessionRepo.GetActiveSessions(ctx, &sessionRepo.GetActiveSessionsInput{})
	if err != nil {
		s.logger.Error("sweep could not list sessions", zap.Error(err))
		return
	}

	now := s.clock.Now()

	for _, sess := range out.Sessions {
		for _, rule := range s.rules {
			deadline := rule.due(sess)
			if deadline == nil || now.Before(*deadline) {
				continue
			}

			advanced, err := rule.advance(ctx, sess.GuildID)
			if err != nil {
				s.logger.Warn("sweep transition failed",
					zap.String("guild_id", sess.GuildID),
					zap.String("rule", rule.name),
					zap.Error(err))
				continue
			}

			if advanced {
				s.logger.Info("sweep advanced session",
					zap.String("guild_id", sess.GuildID),
					zap.String("rule", rule.name))
			}
		}
	}
}
