package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/models"
	"github.com/shelfie-bot/shelfie/internal/services/club"
)

// Announcer posts phase-change announcements to the session's channel.
// It implements club.Announcer.
type Announcer struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewAnnouncer creates a new Discord announcer
func NewAnnouncer(session *discordgo.Session, logger *zap.Logger) (*Announcer, error) {
	if session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Announcer{
		session: session,
		logger:  logger,
	}, nil
}

// AnnouncePhaseChange posts a message describing the transition. A
// missing channel reference is not an error; the transition already
// happened and there is simply nowhere to announce it.
func (a *Announcer) AnnouncePhaseChange(_ context.Context, input *club.AnnouncePhaseChangeInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if input.ChannelID == "" {
		a.logger.Debug("phase change has no channel to announce in",
			zap.String("guild_id", input.GuildID),
			zap.String("phase", string(input.Phase)))
		return nil
	}

	var embed *discordgo.MessageEmbed
	var components []discordgo.MessageComponent

	switch input.Phase {
	case models.PhaseSelecting:
		embed = a.selectingEmbed(input)
		components = a.pollComponents(input)
	case models.PhaseActive:
		embed = a.activeEmbed(input)
	case models.PhaseClosed:
		embed = a.closedEmbed(input)
	default:
		return fmt.Errorf("no announcement for phase %s", input.Phase)
	}

	_, err := a.session.ChannelMessageSendComplex(input.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("failed to send announcement: %w", err)
	}

	return nil
}

func (a *Announcer) selectingEmbed(input *club.AnnouncePhaseChangeInput) *discordgo.MessageEmbed {
	description := "The join window has closed. Vote for the book you want to read!"
	if input.PollDeadline != nil {
		description += fmt.Sprintf("\n\nVoting closes %s.", input.PollDeadline.Format("Jan 2 15:04 MST"))
	}

	candidates := ""
	for _, candidate := range input.Candidates {
		candidates += fmt.Sprintf("**%s** — suggested by %d reader(s)\n", candidate.Title, candidate.Count)
	}

	fields := []*discordgo.MessageEmbedField{}
	if candidates != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Candidates",
			Value:  candidates,
			Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — Book Voting Open", input.Title),
		Description: description,
		Color:       embedColor,
		Fields:      fields,
	}
}

func (a *Announcer) pollComponents(input *club.AnnouncePhaseChangeInput) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(input.Candidates))
	for _, candidate := range input.Candidates {
		options = append(options, discordgo.SelectMenuOption{
			Label:       candidate.Title,
			Value:       candidate.Key,
			Description: fmt.Sprintf("Suggested by %d reader(s)", candidate.Count),
		})
	}

	if len(options) == 0 {
		return nil
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    SelectBookVote,
					Placeholder: "Vote for the next book",
					Options:     options,
				},
			},
		},
	}
}

func (a *Announcer) activeEmbed(input *club.AnnouncePhaseChangeInput) *discordgo.MessageEmbed {
	description := "The reading session is underway. Happy reading! 📖"
	if input.Winner != nil {
		description = fmt.Sprintf("The club chose **%s**. Happy reading! 📖", input.Winner.Title)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — Reading Started", input.Title),
		Description: description,
		Color:       embedColor,
	}
}

func (a *Announcer) closedEmbed(input *club.AnnouncePhaseChangeInput) *discordgo.MessageEmbed {
	description := "The reading session has ended. Thanks for reading along!"
	if input.EarlyEnd {
		description = "The club voted to end the session early."
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — Session Ended", input.Title),
		Description: description,
		Color:       embedColor,
	}
}
