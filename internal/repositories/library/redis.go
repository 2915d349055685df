package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/shelfie-bot/shelfie/internal/models"
)

const (
	// Key prefix for a user's library hash
	libraryKeyPrefix = "library:"

	// Attempts per durable write before the failure surfaces
	writeAttempts = 3
)

// ErrBookNotFound is returned when a user's library has no such book
var ErrBookNotFound = errors.New("book not found")

// Config holds configuration for the Redis library repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed library repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func (r *redisRepository) retryWrite(ctx context.Context, write func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, write()
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(writeAttempts))
	return err
}

func libraryKey(userID string) string {
	return fmt.Sprintf("%s%s", libraryKeyPrefix, userID)
}

// SaveBook upserts a book in a user's library hash, keyed by ISBN
func (r *redisRepository) SaveBook(ctx context.Context, input *SaveBookInput) error {
	if input == nil || input.UserID == "" || input.Book == nil {
		return errors.New("input, user ID and book cannot be empty")
	}

	if input.Book.ISBN == "" {
		return errors.New("book ISBN cannot be empty")
	}

	bookJSON, err := json.Marshal(input.Book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	err = r.retryWrite(ctx, func() error {
		return r.client.HSet(ctx, libraryKey(input.UserID), input.Book.ISBN, bookJSON).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}

	return nil
}

// GetBook retrieves a single book from a user's library
func (r *redisRepository) GetBook(ctx context.Context, input *GetBookInput) (*models.Book, error) {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return nil, errors.New("input, user ID and ISBN cannot be empty")
	}

	bookJSON, err := r.client.HGet(ctx, libraryKey(input.UserID), input.ISBN).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	var book models.Book
	if err := json.Unmarshal([]byte(bookJSON), &book); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book: %w", err)
	}

	return &book, nil
}

// DeleteBook removes a book from a user's library
func (r *redisRepository) DeleteBook(ctx context.Context, input *DeleteBookInput) error {
	if input == nil || input.UserID == "" || input.ISBN == "" {
		return errors.New("input, user ID and ISBN cannot be empty")
	}

	var removed int64
	err := r.retryWrite(ctx, func() error {
		var delErr error
		removed, delErr = r.client.HDel(ctx, libraryKey(input.UserID), input.ISBN).Result()
		return delErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if removed == 0 {
		return ErrBookNotFound
	}

	return nil
}

// ListBooks retrieves every book in a user's library
func (r *redisRepository) ListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	fields, err := r.client.HGetAll(ctx, libraryKey(input.UserID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]*models.Book, 0, len(fields))
	for isbn, value := range fields {
		var book models.Book
		if err := json.Unmarshal([]byte(value), &book); err != nil {
			return nil, fmt.Errorf("failed to unmarshal book %s: %w", isbn, err)
		}
		books = append(books, &book)
	}

	return &ListBooksOutput{
		Books: books,
	}, nil
}
