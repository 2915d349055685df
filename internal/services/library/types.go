package library

import (
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/models"
	libraryRepo "github.com/shelfie-bot/shelfie/internal/repositories/library"
)

// Config holds configuration for the library service
type Config struct {
	// LibraryRepo is the book persistence layer
	LibraryRepo libraryRepo.Repository

	// Clock source
	Clock clock.Clock

	// Logger; defaults to a nop logger
	Logger *zap.Logger
}

// AddBookInput holds the parameters for adding a book
type AddBookInput struct {
	UserID   string
	ISBN     string
	Title    string
	Author   string
	ImageURL string
}

// AddBookOutput holds the result of adding a book
type AddBookOutput struct {
	Book *models.Book

	// Updated is true when the book was already in the library
	Updated bool
}

// RemoveBookInput holds the parameters for removing a book
type RemoveBookInput struct {
	UserID string
	ISBN   string
}

// RemoveBookOutput holds the result of removing a book
type RemoveBookOutput struct {
	Book *models.Book
}

// RateBookInput holds the parameters for rating a book
type RateBookInput struct {
	UserID string
	ISBN   string
	Rating int
}

// RateBookOutput holds the result of rating a book
type RateBookOutput struct {
	Book *models.Book
}

// MarkTopTenInput holds the parameters for toggling a book's top-ten flag
type MarkTopTenInput struct {
	UserID string
	ISBN   string
	TopTen bool
}

// MarkTopTenOutput holds the result of toggling a book's top-ten flag
type MarkTopTenOutput struct {
	Book *models.Book
}

// ListBooksInput holds the parameters for listing a user's library.
// Zero-valued filters are ignored.
type ListBooksInput struct {
	UserID string

	// Author keeps only books whose author contains this string
	Author string

	// MinRating keeps only books rated at or above this value
	MinRating int

	// Title keeps only books whose title contains this string
	Title string
}

// ListBooksOutput holds the result of listing a user's library
type ListBooksOutput struct {
	Books []*models.Book
}

// ListTopTenInput holds the parameters for listing a user's top ten
type ListTopTenInput struct {
	UserID string
}

// ListTopTenOutput holds the result of listing a user's top ten
type ListTopTenOutput struct {
	Books []*models.Book
}
