package library

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/models"
	libraryRepo "github.com/shelfie-bot/shelfie/internal/repositories/library"
)

// topTenLimit caps the top-ten listing
const topTenLimit = 10

// service implements the Service interface
type service struct {
	libraryRepo libraryRepo.Repository
	clock       clock.Clock
	logger      *zap.Logger
}

// New creates a new library service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.LibraryRepo == nil {
		return nil, ErrNilLibraryRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		libraryRepo: cfg.LibraryRepo,
		clock:       cfg.Clock,
		logger:      logger,
	}, nil
}

// AddBook upserts a book. Re-adding an existing book refreshes its title,
// author and image while keeping the rating and top-ten flag.
func (s *service) AddBook(ctx context.Context, input *AddBookInput) (*AddBookOutput, error) {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return nil, errors.New("input, user ID and ISBN cannot be empty")
	}

	if input.Title == "" {
		return nil, errors.New("title cannot be empty")
	}

	book := &models.Book{
		ISBN:     input.ISBN,
		Title:    input.Title,
		Author:   input.Author,
		ImageURL: input.ImageURL,
		AddedAt:  s.clock.Now(),
	}

	var updated bool
	existing, err := s.libraryRepo.GetBook(ctx, &libraryRepo.GetBookInput{
		UserID: input.UserID,
		ISBN:   input.ISBN,
	})
	if err != nil && !errors.Is(err, libraryRepo.ErrBookNotFound) {
		return nil, err
	}
	if existing != nil {
		updated = true
		book.Rating = existing.Rating
		book.TopTen = existing.TopTen
		book.AddedAt = existing.AddedAt
	}

	err = s.libraryRepo.SaveBook(ctx, &libraryRepo.SaveBookInput{
		UserID: input.UserID,
		Book:   book,
	})
	if err != nil {
		return nil, err
	}

	return &AddBookOutput{
		Book:    book,
		Updated: updated,
	}, nil
}

// RemoveBook removes a book from a user's library
func (s *service) RemoveBook(ctx context.Context, input *RemoveBookInput) (*RemoveBookOutput, error) {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return nil, errors.New("input, user ID and ISBN cannot be empty")
	}

	book, err := s.getBook(ctx, input.UserID, input.ISBN)
	if err != nil {
		return nil, err
	}

	err = s.libraryRepo.DeleteBook(ctx, &libraryRepo.DeleteBookInput{
		UserID: input.UserID,
		ISBN:   input.ISBN,
	})
	if err != nil {
		if errors.Is(err, libraryRepo.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	return &RemoveBookOutput{
		Book: book,
	}, nil
}

// RateBook sets a book's rating
func (s *service) RateBook(ctx context.Context, input *RateBookInput) (*RateBookOutput, error) {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return nil, errors.New("input, user ID and ISBN cannot be empty")
	}

	if input.Rating < 1 || input.Rating > 10 {
		return nil, ErrRatingOutOfRange
	}

	book, err := s.getBook(ctx, input.UserID, input.ISBN)
	if err != nil {
		return nil, err
	}

	book.Rating = input.Rating

	err = s.libraryRepo.SaveBook(ctx, &libraryRepo.SaveBookInput{
		UserID: input.UserID,
		Book:   book,
	})
	if err != nil {
		return nil, err
	}

	return &RateBookOutput{
		Book: book,
	}, nil
}

// MarkTopTen toggles a book's top-ten flag
func (s *service) MarkTopTen(ctx context.Context, input *MarkTopTenInput) (*MarkTopTenOutput, error) {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return nil, errors.New("input, user ID and ISBN cannot be empty")
	}

	book, err := s.getBook(ctx, input.UserID, input.ISBN)
	if err != nil {
		return nil, err
	}

	book.TopTen = input.TopTen

	err = s.libraryRepo.SaveBook(ctx, &libraryRepo.SaveBookInput{
		UserID: input.UserID,
		Book:   book,
	})
	if err != nil {
		return nil, err
	}

	return &MarkTopTenOutput{
		Book: book,
	}, nil
}

// ListBooks lists a user's library, newest first, applying any filters
func (s *service) ListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	out, err := s.libraryRepo.ListBooks(ctx, &libraryRepo.ListBooksInput{
		UserID: input.UserID,
	})
	if err != nil {
		return nil, err
	}

	books := make([]*models.Book, 0, len(out.Books))
	for _, book := range out.Books {
		if input.Author != "" && !containsFold(book.Author, input.Author) {
			continue
		}
		if input.MinRating > 0 && book.Rating < input.MinRating {
			continue
		}
		if input.Title != "" && !containsFold(book.Title, input.Title) {
			continue
		}
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool {
		if !books[i].AddedAt.Equal(books[j].AddedAt) {
			return books[i].AddedAt.After(books[j].AddedAt)
		}
		return books[i].ISBN < books[j].ISBN
	})

	return &ListBooksOutput{
		Books: books,
	}, nil
}

// ListTopTen lists a user's top-ten books, highest rated first
func (s *service) ListTopTen(ctx context.Context, input *ListTopTenInput) (*ListTopTenOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	out, err := s.libraryRepo.ListBooks(ctx, &libraryRepo.ListBooksInput{
		UserID: input.UserID,
	})
	if err != nil {
		return nil, err
	}

	books := make([]*models.Book, 0, len(out.Books))
	for _, book := range out.Books {
		if book.TopTen {
			books = append(books, book)
		}
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].Rating != books[j].Rating {
			return books[i].Rating > books[j].Rating
		}
		return books[i].ISBN < books[j].ISBN
	})

	if len(books) > topTenLimit {
		books = books[:topTenLimit]
	}

	return &ListTopTenOutput{
		Books: books,
	}, nil
}

func (s *service) getBook(ctx context.Context, userID, isbn string) (*models.Book, error) {
	book, err := s.libraryRepo.GetBook(ctx, &libraryRepo.GetBookInput{
		UserID: userID,
		ISBN:   isbn,
	})
	if err != nil {
		if errors.Is(err, libraryRepo.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
