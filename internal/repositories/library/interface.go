package library

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/shelfie-bot/shelfie/internal/repositories/library Repository

import (
	"context"

	"github.com/shelfie-bot/shelfie/internal/models"
)

// Repository defines the interface for personal-library persistence
type Repository interface {
	// SaveBook upserts a book in a user's library
	SaveBook(ctx context.Context, input *SaveBookInput) error

	// GetBook retrieves a single book from a user's library
	GetBook(ctx context.Context, input *GetBookInput) (*models.Book, error)

	// DeleteBook removes a book from a user's library
	DeleteBook(ctx context.Context, input *DeleteBookInput) error

	// ListBooks retrieves every book in a user's library
	ListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error)
}
