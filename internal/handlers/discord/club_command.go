package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/services/club"
)

// ClubCommand handles the /club command
type ClubCommand struct {
	BaseCommand
	clubService club.Service
	logger      *zap.Logger
}

// NewClubCommand creates a new club command handler
func NewClubCommand(clubService club.Service, logger *zap.Logger) *ClubCommand {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ClubCommand{
		BaseCommand: BaseCommand{
			Name:        "club",
			Description: "Book club reading session commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new reading session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Session title",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "start-date",
							Description: "Start date (YYYY-MM-DD)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "start-time",
							Description: "Start time (HH:MM, 24-hour)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "duration",
							Description: "How many weeks or months the session runs",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "unit",
							Description: "Duration unit",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "weeks", Value: "weeks"},
								{Name: "months", Value: "months"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "What this session is about",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "voting",
							Description: "Run a book-selection poll after the join window",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join the current reading session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave the current reading session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "suggest",
					Description: "Suggest a book for the session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Book title",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "vote",
					Description: "Vote for a book in the selection poll",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Candidate book title",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "endvote",
					Description: "Start a vote to end the session early",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current session",
				},
			},
		},
		clubService: clubService,
		logger:      logger,
	}
}

// Handle processes a Discord interaction for the club command
func (c *ClubCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	guildID := i.GuildID
	userID := i.Member.User.ID

	switch data.Options[0].Name {
	case "create":
		return c.handleCreate(s, i, guildID, userID, data.Options[0].Options)
	case "join":
		return c.handleJoin(s, i, guildID, userID)
	case "leave":
		return c.handleLeave(s, i, guildID, userID)
	case "suggest":
		return c.handleSuggest(s, i, guildID, userID, data.Options[0].Options)
	case "vote":
		return c.handleVote(s, i, guildID, userID, data.Options[0].Options)
	case "endvote":
		return c.handleEndVote(s, i, guildID, userID)
	case "status":
		return c.handleStatus(s, i, guildID)
	default:
		return errors.New("unknown subcommand")
	}
}

// optionMap folds subcommand options into a name lookup
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		m[option.Name] = option
	}
	return m
}

// handleCreate handles the create subcommand
func (c *ClubCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &club.CreateSessionInput{
		GuildID:        guildID,
		ChannelID:      i.ChannelID,
		CreatedBy:      userID,
		Title:          opts["title"].StringValue(),
		StartDate:      opts["start-date"].StringValue(),
		StartTime:      opts["start-time"].StringValue(),
		DurationAmount: int(opts["duration"].IntValue()),
		DurationUnit:   opts["unit"].StringValue(),
	}
	if opt, ok := opts["description"]; ok {
		input.Description = opt.StringValue()
	}
	if opt, ok := opts["voting"]; ok {
		input.VotingEnabled = opt.BoolValue()
	}

	out, err := c.clubService.CreateSession(ctx, input)
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	// Post the session message to the channel, then record its reference
	// so later transitions can update it
	msg, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderSessionEmbed(out.Session)},
		Components: sessionComponents(out.Session),
	})
	if err != nil {
		c.logger.Warn("failed to send session message",
			zap.String("guild_id", guildID),
			zap.Error(err))
	} else {
		_, err = c.clubService.SetSessionMessage(ctx, &club.SetSessionMessageInput{
			GuildID:   guildID,
			ChannelID: i.ChannelID,
			MessageID: msg.ID,
		})
		if err != nil {
			c.logger.Warn("failed to record session message reference",
				zap.String("guild_id", guildID),
				zap.Error(err))
		}
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Reading session **%s** created. The join window closes %s.",
			out.Session.Title, out.Session.JoinDeadline.Format("Jan 2 15:04 MST")))
}

// handleJoin handles the join subcommand
func (c *ClubCommand) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := c.clubService.JoinSession(ctx, &club.JoinSessionInput{
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if out.AlreadyMember {
		return RespondWithEphemeralMessage(s, i, "You had already joined this session.")
	}
	return RespondWithEphemeralMessage(s, i, "You joined the reading session! 📚")
}

// handleLeave handles the leave subcommand
func (c *ClubCommand) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := c.clubService.LeaveSession(ctx, &club.LeaveSessionInput{
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if !out.WasMember {
		return RespondWithEphemeralMessage(s, i, "You were not part of this session.")
	}
	return RespondWithEphemeralMessage(s, i, "You left the reading session.")
}

// handleSuggest handles the suggest subcommand
func (c *ClubCommand) handleSuggest(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.clubService.SuggestBook(ctx, &club.SuggestBookInput{
		GuildID: guildID,
		UserID:  userID,
		Title:   opts["title"].StringValue(),
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if out.Duplicate {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("**%s** was already suggested; it now has %d supporter(s).",
				out.Suggestion.Title, out.Suggestion.Count))
	}
	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** is on the list.", out.Suggestion.Title))
}

// handleVote handles the vote subcommand
func (c *ClubCommand) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.clubService.CastBookVote(ctx, &club.CastBookVoteInput{
		GuildID: guildID,
		UserID:  userID,
		Title:   opts["title"].StringValue(),
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Your vote for **%s** is in. Voting again replaces it.", out.Choice.Title))
}

// handleEndVote handles the endvote subcommand
func (c *ClubCommand) handleEndVote(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string) error {
	ctx := context.Background()

	out, err := c.clubService.StartEndVote(ctx, &club.StartEndVoteInput{
		GuildID:   guildID,
		StartedBy: userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithMessage(s, i,
		fmt.Sprintf("A vote to end the session early has started. A strict majority of the %d member(s) is needed.",
			out.MemberCount))
}

// handleStatus handles the status subcommand
func (c *ClubCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, guildID string) error {
	ctx := context.Background()

	out, err := c.clubService.GetSession(ctx, &club.GetSessionInput{
		GuildID: guildID,
	})
	if err != nil {
		if errors.Is(err, club.ErrNoActiveSession) {
			return RespondWithEphemeralMessage(s, i, "No reading session is running. Start one with `/club create`.")
		}
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithEmbed(s, i, renderSessionEmbed(out.Session), sessionComponents(out.Session))
}
