package models

import (
	"time"
)

// Suggestion represents a book suggested for a session. Suggestions are
// unique per guild by normalized title; re-suggesting the same title from
// another member bumps the count instead of creating a second entry.
type Suggestion struct {
	// GuildID is the guild the suggestion belongs to
	GuildID string

	// Key is the normalized, case-insensitive dedup key for the title
	Key string

	// Title is the display title (trimmed, title-cased)
	Title string

	// SuggestedBy is the user ID of the first proposer
	SuggestedBy string

	// Proposers lists every distinct user who proposed this title,
	// first proposer first
	Proposers []string

	// Count is how many distinct proposers this title has received
	Count int

	// FirstSuggestedAt is when the title was first suggested
	FirstSuggestedAt time.Time
}
