package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/shelfie-bot/shelfie/internal/models"
)

const embedColor = 0x5865f2 // Discord blurple

// renderSessionEmbed renders the session message embed for the current
// phase
func renderSessionEmbed(sess *models.Session) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Phase",
			Value:  phaseLabel(sess),
			Inline: true,
		},
		{
			Name:   "Readers",
			Value:  fmt.Sprintf("%d", sess.MemberCount()),
			Inline: true,
		},
		{
			Name:   "Schedule",
			Value:  fmt.Sprintf("%s → %s", sess.StartTime.Format("Jan 2 15:04"), sess.EndTime.Format("Jan 2 15:04")),
			Inline: true,
		},
	}

	switch sess.Phase {
	case models.PhaseJoining:
		if sess.JoinDeadline != nil {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "Join By",
				Value:  sess.JoinDeadline.Format("Jan 2 15:04 MST"),
				Inline: false,
			})
		}
		if suggestions := renderSuggestionTally(sess); suggestions != "" {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "Suggested Books",
				Value:  suggestions,
				Inline: false,
			})
		}
	case models.PhaseSelecting:
		if sess.PollDeadline != nil {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "Vote By",
				Value:  sess.PollDeadline.Format("Jan 2 15:04 MST"),
				Inline: false,
			})
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Candidates",
			Value:  renderSuggestionTally(sess),
			Inline: false,
		})
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Ballots Cast",
			Value:  fmt.Sprintf("%d", len(sess.PollBallots)),
			Inline: true,
		})
	}

	description := sess.Description
	if sess.EndVote != nil {
		description += "\n\n⚠️ A vote to end this session early is in progress."
	}

	return &discordgo.MessageEmbed{
		Title:       sess.Title,
		Description: strings.TrimSpace(description),
		Color:       embedColor,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// sessionComponents returns the interactive components for the current
// phase
func sessionComponents(sess *models.Session) []discordgo.MessageComponent {
	var row []discordgo.MessageComponent

	switch sess.Phase {
	case models.PhaseJoining:
		row = append(row,
			discordgo.Button{
				Label:    "Join",
				Style:    discordgo.SuccessButton,
				CustomID: ButtonJoinSession,
				Emoji: &discordgo.ComponentEmoji{
					Name: "📚",
				},
			},
			discordgo.Button{
				Label:    "Leave",
				Style:    discordgo.SecondaryButton,
				CustomID: ButtonLeaveSession,
			},
		)
	case models.PhaseSelecting:
		options := make([]discordgo.SelectMenuOption, 0, len(sess.Suggestions))
		for _, suggestion := range sortedSuggestions(sess) {
			options = append(options, discordgo.SelectMenuOption{
				Label:       suggestion.Title,
				Value:       suggestion.Key,
				Description: fmt.Sprintf("Suggested by %d reader(s)", suggestion.Count),
			})
		}
		if len(options) > 0 {
			row = append(row, discordgo.SelectMenu{
				CustomID:    SelectBookVote,
				Placeholder: "Vote for the next book",
				Options:     options,
			})
		}
	}

	if sess.EndVote != nil {
		row = append(row, discordgo.Button{
			Label:    "End Early",
			Style:    discordgo.DangerButton,
			CustomID: ButtonEndVoteYes,
		})
	}

	if len(row) == 0 {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: row,
		},
	}
}

func phaseLabel(sess *models.Session) string {
	switch sess.Phase {
	case models.PhaseJoining:
		return "Open to join"
	case models.PhaseSelecting:
		return "Choosing the book"
	case models.PhaseActive:
		return "Reading"
	default:
		return string(sess.Phase)
	}
}

func sortedSuggestions(sess *models.Session) []*models.Suggestion {
	list := make([]*models.Suggestion, 0, len(sess.Suggestions))
	for _, suggestion := range sess.Suggestions {
		list = append(list, suggestion)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Key < list[j].Key
	})
	return list
}

func renderSuggestionTally(sess *models.Session) string {
	var builder strings.Builder
	for _, suggestion := range sortedSuggestions(sess) {
		builder.WriteString(fmt.Sprintf("**%s** — suggested by %d reader(s)\n", suggestion.Title, suggestion.Count))
	}
	return strings.TrimSpace(builder.String())
}

// renderBookList renders a user's library listing
func renderBookList(books []*models.Book) string {
	if len(books) == 0 {
		return "No books found."
	}

	var builder strings.Builder
	for _, book := range books {
		rating := "unrated"
		if book.Rating > 0 {
			rating = fmt.Sprintf("%d/10", book.Rating)
		}
		marker := ""
		if book.TopTen {
			marker = " ⭐"
		}
		builder.WriteString(fmt.Sprintf("**%s** by %s (%s)%s\n", book.Title, book.Author, rating, marker))
	}
	return strings.TrimSpace(builder.String())
}
