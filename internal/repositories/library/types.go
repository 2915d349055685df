package library

import (
	"github.com/shelfie-bot/shelfie/internal/models"
)

// SaveBookInput holds the parameters for saving a book
type SaveBookInput struct {
	UserID string
	Book   *models.Book
}

// GetBookInput holds the parameters for retrieving a book
type GetBookInput struct {
	UserID string
	ISBN   string
}

// DeleteBookInput holds the parameters for removing a book
type DeleteBookInput struct {
	UserID string
	ISBN   string
}

// ListBooksInput holds the parameters for listing a user's library
type ListBooksInput struct {
	UserID string
}

// ListBooksOutput holds the result of listing a user's library
type ListBooksOutput struct {
	Books []*models.Book
}
