package session

import "github.com/shelfie-bot/shelfie/internal/models"

type SaveSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	GuildID string
}

type DeleteSessionInput struct {
	GuildID string
}

type GetActiveSessionsInput struct {
}

type GetActiveSessionsOutput struct {
	Sessions []*models.Session
}

type SaveMembershipInput struct {
	GuildID  string
	UserID   string
	IsMember bool
}

type AddSuggestionInput struct {
	Suggestion *models.Suggestion
}

type AddSuggestionOutput struct {
	// Created is false when a suggestion with the same key already existed
	Created bool
}

type SaveSuggestionInput struct {
	Suggestion *models.Suggestion
}

type DeleteSuggestionsInput struct {
	GuildID string
}
