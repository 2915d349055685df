package library

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/shelfie-bot/shelfie/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newTestBook() *models.Book {
	return &models.Book{
		ISBN:    "9780441013593",
		Title:   "Dune",
		Author:  "Frank Herbert",
		AddedAt: s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetBook() {
	book := s.newTestBook()

	err := s.repo.SaveBook(context.Background(), &SaveBookInput{
		UserID: "test-user-id",
		Book:   book,
	})
	s.Require().NoError(err)

	got, err := s.repo.GetBook(context.Background(), &GetBookInput{
		UserID: "test-user-id",
		ISBN:   book.ISBN,
	})
	s.Require().NoError(err)
	s.Equal(book.Title, got.Title)
	s.Equal(book.Author, got.Author)
	s.Equal(0, got.Rating)
	s.False(got.TopTen)
}

func (s *RedisRepositoryTestSuite) TestGetBookNotFound() {
	_, err := s.repo.GetBook(context.Background(), &GetBookInput{
		UserID: "test-user-id",
		ISBN:   "9780441013593",
	})
	s.Require().ErrorIs(err, ErrBookNotFound)
}

func (s *RedisRepositoryTestSuite) TestSaveBookOverwrites() {
	book := s.newTestBook()

	err := s.repo.SaveBook(context.Background(), &SaveBookInput{
		UserID: "test-user-id",
		Book:   book,
	})
	s.Require().NoError(err)

	book.Rating = 9
	book.TopTen = true
	err = s.repo.SaveBook(context.Background(), &SaveBookInput{
		UserID: "test-user-id",
		Book:   book,
	})
	s.Require().NoError(err)

	got, err := s.repo.GetBook(context.Background(), &GetBookInput{
		UserID: "test-user-id",
		ISBN:   book.ISBN,
	})
	s.Require().NoError(err)
	s.Equal(9, got.Rating)
	s.True(got.TopTen)
}

func (s *RedisRepositoryTestSuite) TestDeleteBook() {
	book := s.newTestBook()

	err := s.repo.SaveBook(context.Background(), &SaveBookInput{
		UserID: "test-user-id",
		Book:   book,
	})
	s.Require().NoError(err)

	err = s.repo.DeleteBook(context.Background(), &DeleteBookInput{
		UserID: "test-user-id",
		ISBN:   book.ISBN,
	})
	s.Require().NoError(err)

	_, err = s.repo.GetBook(context.Background(), &GetBookInput{
		UserID: "test-user-id",
		ISBN:   book.ISBN,
	})
	s.Require().ErrorIs(err, ErrBookNotFound)
}

func (s *RedisRepositoryTestSuite) TestDeleteBookNotFound() {
	err := s.repo.DeleteBook(context.Background(), &DeleteBookInput{
		UserID: "test-user-id",
		ISBN:   "9780441013593",
	})
	s.Require().ErrorIs(err, ErrBookNotFound)
}

func (s *RedisRepositoryTestSuite) TestListBooks() {
	first := s.newTestBook()
	second := &models.Book{
		ISBN:    "9780553283686",
		Title:   "Hyperion",
		Author:  "Dan Simmons",
		Rating:  8,
		AddedAt: s.testNow.Add(time.Hour),
	}

	for _, book := range []*models.Book{first, second} {
		err := s.repo.SaveBook(context.Background(), &SaveBookInput{
			UserID: "test-user-id",
			Book:   book,
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListBooks(context.Background(), &ListBooksInput{
		UserID: "test-user-id",
	})
	s.Require().NoError(err)
	s.Len(out.Books, 2)
}

func (s *RedisRepositoryTestSuite) TestLibrariesAreIsolatedPerUser() {
	book := s.newTestBook()

	err := s.repo.SaveBook(context.Background(), &SaveBookInput{
		UserID: "test-user-id",
		Book:   book,
	})
	s.Require().NoError(err)

	out, err := s.repo.ListBooks(context.Background(), &ListBooksInput{
		UserID: "other-user-id",
	})
	s.Require().NoError(err)
	s.Empty(out.Books)
}
