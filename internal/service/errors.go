package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("user with this username already exists")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")

	// ErrNotRecipeAuthor is returned when a requester tries to modify a
	// recipe they do not own. Handlers map it to 403, never to 400.
	ErrNotRecipeAuthor = errors.New("requester is not the recipe author")

	ErrSelfFollow       = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing = errors.New("already subscribed to this user")
	ErrNotFollowing     = errors.New("not subscribed to this user")

	ErrAlreadyInList = errors.New("recipe is already in the list")
	ErrNotInList     = errors.New("recipe is not in the list")
)

// ValidationError reports client-supplied data that violates a recipe
// invariant. Field names the offending payload field so the client can
// correct and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
