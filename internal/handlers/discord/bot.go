package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/services/club"
	"github.com/shelfie-bot/shelfie/internal/services/library"
)

// Bot represents the Discord bot instance
type Bot struct {
	session        *discordgo.Session
	commands       map[string]CommandHandler
	commandIDs     map[string]string // Maps command name to command ID
	clubService    club.Service
	libraryService library.Service
	logger         *zap.Logger
	config         *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Session is an existing Discord session. When set it is used as is,
	// so the same connection can serve the announcer; otherwise a session
	// is created from Token.
	Session *discordgo.Session

	// Discord bot token; ignored when Session is set
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Club service
	ClubService club.Service

	// Library service
	LibraryService library.Service

	// Logger; defaults to a nop logger
	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil && cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.ClubService == nil {
		return nil, errors.New("club service cannot be nil")
	}

	if cfg.LibraryService == nil {
		return nil, errors.New("library service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	session := cfg.Session
	if session == nil {
		var err error
		session, err = discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
	}

	bot := &Bot{
		session:        session,
		commands:       make(map[string]CommandHandler),
		commandIDs:     make(map[string]string),
		clubService:    cfg.ClubService,
		libraryService: cfg.LibraryService,
		logger:         logger,
		config:         cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Session exposes the underlying Discord session for collaborators that
// post messages outside the interaction flow
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	clubCmd := NewClubCommand(b.clubService, b.logger)
	if err := b.RegisterCommand(clubCmd); err != nil {
		return fmt.Errorf("failed to register club command: %w", err)
	}

	libraryCmd := NewLibraryCommand(b.libraryService, b.logger)
	if err := b.RegisterCommand(libraryCmd); err != nil {
		return fmt.Errorf("failed to register library command: %w", err)
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command",
				zap.String("command", cmdName),
				zap.Error(err))
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register the command for that guild only;
	// otherwise register it globally
	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("command_id", createdCmd.ID))

	return nil
}

// Button and select menu custom IDs
const (
	ButtonJoinSession  = "join_session"
	ButtonLeaveSession = "leave_session"
	ButtonEndVoteYes   = "end_vote_yes"

	SelectBookVote = "book_vote"
)

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error("command failed",
					zap.String("command", i.ApplicationCommandData().Name),
					zap.Error(err))
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons and select menus
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error("component interaction failed",
				zap.String("custom_id", i.MessageComponentData().CustomID),
				zap.Error(err))
		}
	}
}

// handleComponentInteraction handles button clicks and select menus
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	guildID := i.GuildID
	userID := i.Member.User.ID

	switch customID {
	case ButtonJoinSession:
		return b.handleJoinButton(s, i, guildID, userID)
	case ButtonLeaveSession:
		return b.handleLeaveButton(s, i, guildID, userID)
	case ButtonEndVoteYes:
		return b.handleEndVoteButton(s, i, guildID, userID)
	case SelectBookVote:
		return b.handleBookVoteSelect(s, i, guildID, userID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", customID))
	}
}

// handleJoinButton handles the join session button click
func (b *Bot) handleJoinButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := b.clubService.JoinSession(ctx, &club.JoinSessionInput{
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	b.updateSessionMessage(s, guildID)

	if out.AlreadyMember {
		return RespondWithEphemeralMessage(s, i, "You had already joined this session.")
	}
	return RespondWithEphemeralMessage(s, i, "You joined the reading session! 📚")
}

// handleLeaveButton handles the leave session button click
func (b *Bot) handleLeaveButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := b.clubService.LeaveSession(ctx, &club.LeaveSessionInput{
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	b.updateSessionMessage(s, guildID)

	if !out.WasMember {
		return RespondWithEphemeralMessage(s, i, "You were not part of this session.")
	}
	return RespondWithEphemeralMessage(s, i, "You left the reading session.")
}

// handleEndVoteButton handles a yes ballot in an early-end vote
func (b *Bot) handleEndVoteButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := b.clubService.CastEndVote(ctx, &club.CastEndVoteInput{
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if out.Passed {
		return RespondWithEphemeralMessage(s, i, "Majority reached. The session has ended early.")
	}
	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Ballot recorded: %d of %d members want to end early.", out.BallotsCast, out.MemberCount))
}

// handleBookVoteSelect handles a choice in the book-selection poll
func (b *Bot) handleBookVoteSelect(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return RespondWithEphemeralMessage(s, i, "No book selected.")
	}

	out, err := b.clubService.CastBookVote(ctx, &club.CastBookVoteInput{
		GuildID: guildID,
		UserID:  userID,
		Title:   values[0],
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	b.updateSessionMessage(s, guildID)

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Your vote for **%s** is in. Voting again replaces it.", out.Choice.Title))
}

// updateSessionMessage refreshes the rendered session message in the
// session's channel. Failures are logged; the interaction already
// succeeded.
func (b *Bot) updateSessionMessage(s *discordgo.Session, guildID string) {
	ctx := context.Background()

	out, err := b.clubService.GetSession(ctx, &club.GetSessionInput{
		GuildID: guildID,
	})
	if err != nil {
		if !errors.Is(err, club.ErrNoActiveSession) {
			b.logger.Warn("failed to load session for message update",
				zap.String("guild_id", guildID),
				zap.Error(err))
		}
		return
	}

	sess := out.Session
	if sess.MessageID == "" {
		return
	}

	embed := renderSessionEmbed(sess)
	components := sessionComponents(sess)

	embeds := []*discordgo.MessageEmbed{embed}
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    sess.ChannelID,
		ID:         sess.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		b.logger.Warn("failed to update session message",
			zap.String("guild_id", guildID),
			zap.Error(err))
	}
}
