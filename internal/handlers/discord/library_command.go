package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/services/library"
)

// LibraryCommand handles the /library command
type LibraryCommand struct {
	BaseCommand
	libraryService library.Service
	logger         *zap.Logger
}

// NewLibraryCommand creates a new library command handler
func NewLibraryCommand(libraryService library.Service, logger *zap.Logger) *LibraryCommand {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LibraryCommand{
		BaseCommand: BaseCommand{
			Name:        "library",
			Description: "Personal book library commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a book to your library",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "isbn",
							Description: "ISBN of the book",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Book title",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "author",
							Description: "Book author",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a book from your library",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "isbn",
							Description: "ISBN of the book",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rate",
					Description: "Rate a book from 1 to 10",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "isbn",
							Description: "ISBN of the book",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "rating",
							Description: "Rating between 1 and 10",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "topten",
					Description: "Mark or unmark a book as a top-ten pick",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "isbn",
							Description: "ISBN of the book",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "flag",
							Description: "True to add to your top ten, false to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your library",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "author",
							Description: "Only books by this author",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "min-rating",
							Description: "Only books rated at or above this value",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Only books whose title contains this text",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "top",
					Description: "Show your top-ten picks",
				},
			},
		},
		libraryService: libraryService,
		logger:         logger,
	}
}

// Handle processes a Discord interaction for the library command
func (c *LibraryCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	userID := i.Member.User.ID

	switch data.Options[0].Name {
	case "add":
		return c.handleAdd(s, i, userID, data.Options[0].Options)
	case "remove":
		return c.handleRemove(s, i, userID, data.Options[0].Options)
	case "rate":
		return c.handleRate(s, i, userID, data.Options[0].Options)
	case "topten":
		return c.handleTopTen(s, i, userID, data.Options[0].Options)
	case "list":
		return c.handleList(s, i, userID, data.Options[0].Options)
	case "top":
		return c.handleTop(s, i, userID)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleAdd handles the add subcommand
func (c *LibraryCommand) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &library.AddBookInput{
		UserID: userID,
		ISBN:   opts["isbn"].StringValue(),
		Title:  opts["title"].StringValue(),
	}
	if opt, ok := opts["author"]; ok {
		input.Author = opt.StringValue()
	}

	out, err := c.libraryService.AddBook(ctx, input)
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if out.Updated {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("**%s** updated in your library.", out.Book.Title))
	}
	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** added to your library.", out.Book.Title))
}

// handleRemove handles the remove subcommand
func (c *LibraryCommand) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.libraryService.RemoveBook(ctx, &library.RemoveBookInput{
		UserID: userID,
		ISBN:   opts["isbn"].StringValue(),
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** removed from your library.", out.Book.Title))
}

// handleRate handles the rate subcommand
func (c *LibraryCommand) handleRate(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.libraryService.RateBook(ctx, &library.RateBookInput{
		UserID: userID,
		ISBN:   opts["isbn"].StringValue(),
		Rating: int(opts["rating"].IntValue()),
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** rated %d/10.", out.Book.Title, out.Book.Rating))
}

// handleTopTen handles the topten subcommand
func (c *LibraryCommand) handleTopTen(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.libraryService.MarkTopTen(ctx, &library.MarkTopTenInput{
		UserID: userID,
		ISBN:   opts["isbn"].StringValue(),
		TopTen: opts["flag"].BoolValue(),
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if out.Book.TopTen {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("**%s** is now in your top ten. ⭐", out.Book.Title))
	}
	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** removed from your top ten.", out.Book.Title))
}

// handleList handles the list subcommand
func (c *LibraryCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &library.ListBooksInput{
		UserID: userID,
	}
	if opt, ok := opts["author"]; ok {
		input.Author = opt.StringValue()
	}
	if opt, ok := opts["min-rating"]; ok {
		input.MinRating = int(opt.IntValue())
	}
	if opt, ok := opts["title"]; ok {
		input.Title = opt.StringValue()
	}

	out, err := c.libraryService.ListBooks(ctx, input)
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Your Library",
		Description: renderBookList(out.Books),
		Color:       embedColor,
	}
	return RespondWithEmbed(s, i, embed, nil)
}

// handleTop handles the top subcommand
func (c *LibraryCommand) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	out, err := c.libraryService.ListTopTen(ctx, &library.ListTopTenInput{
		UserID: userID,
	})
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Your Top Ten",
		Description: renderBookList(out.Books),
		Color:       embedColor,
	}
	return RespondWithEmbed(s, i, embed, nil)
}
