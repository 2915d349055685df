package models

import (
	"time"
)

// Book represents an entry in a user's personal library
type Book struct {
	// ISBN identifies the book within a user's library
	ISBN string

	// Title is the book title
	Title string

	// Author is the book author
	Author string

	// ImageURL is an optional cover image URL
	ImageURL string

	// Rating is the user's rating from 1 to 10; 0 means unrated
	Rating int

	// TopTen indicates the user marked this book as one of their top ten
	TopTen bool

	// AddedAt is when the book was added to the library
	AddedAt time.Time
}
