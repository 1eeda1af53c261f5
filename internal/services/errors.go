package services

import "errors"

// Domain errors surfaced to clients. Handlers map these to HTTP statuses
// and {"message": ...} bodies; anything else is a server error.
var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidJournalID    = errors.New("invalid journal id")
	ErrInvalidTrekID       = errors.New("invalid trek id")
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrTrekNameRequired    = errors.New("trek name is required")
	ErrMissingReviewFields = errors.New("missing userId, username or review")
	ErrUserNotFound        = errors.New("user not found")
	ErrTrekNotFound        = errors.New("trek not found")
	ErrJournalNotFound     = errors.New("journal entry not found")
)
