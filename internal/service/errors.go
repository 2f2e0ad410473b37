package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrNoUserWithUsername = errors.New("No user found with this username.")
	ErrReauthFailed       = errors.New("Incorrect password.")
	ErrUsernameTaken      = errors.New("Username already taken.")
	ErrEmailInUse         = errors.New("Email already in use.")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("you can only delete your own posts")
)
