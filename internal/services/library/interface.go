package library

import (
	"context"
)

// Service defines the interface for personal-library operations
type Service interface {
	// AddBook upserts a book in a user's library, keeping any existing
	// rating and top-ten flag
	AddBook(ctx context.Context, input *AddBookInput) (*AddBookOutput, error)

	// RemoveBook removes a book from a user's library
	RemoveBook(ctx context.Context, input *RemoveBookInput) (*RemoveBookOutput, error)

	// RateBook sets a book's rating, between 1 and 10
	RateBook(ctx context.Context, input *RateBookInput) (*RateBookOutput, error)

	// MarkTopTen toggles a book's top-ten flag
	MarkTopTen(ctx context.Context, input *MarkTopTenInput) (*MarkTopTenOutput, error)

	// ListBooks lists a user's library with optional filters
	ListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error)

	// ListTopTen lists a user's top-ten books, highest rated first
	ListTopTen(ctx context.Context, input *ListTopTenInput) (*ListTopTenOutput, error)
}
