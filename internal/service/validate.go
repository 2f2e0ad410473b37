package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nab23-dev/prompt-sci/internal/dto"
)

// Lengths count characters, not bytes.
const (
	MinUsernameLength = 4
	MinPasswordLength = 6
)

var (
	gmailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
	emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidationError is a rejected input. Its message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var (
	errFillAllFields           = invalid("Please fill in all fields.")
	errUsernameTooShort        = invalid("Username must be at least 4 characters.")
	errNotGmail                = invalid("Please use a valid Gmail address.")
	errPasswordTooShort        = invalid("Password must be at least 6 characters.")
	errInvalidEmail            = invalid("Please enter a valid email address.")
	errCurrentPasswordRequired = invalid("Current password is required to make changes.")
	errDeletePasswordRequired  = invalid("Please enter your password.")
	errPromptRequired          = invalid("Prompt is required.")
	errNothingToUpdate         = invalid("Nothing to update.")
)

func validateSignUp(req dto.SignUpRequest) error {
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return errFillAllFields
	}
	if utf8.RuneCountInString(req.Username) < MinUsernameLength {
		return errUsernameTooShort
	}
	if !gmailRegexp.MatchString(req.Email) {
		return errNotGmail
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return errPasswordTooShort
	}
	return nil
}

func validateSignIn(req dto.SignInRequest) error {
	if req.EmailOrUsername == "" || req.Password == "" {
		return errFillAllFields
	}
	return nil
}

// normalizeAccountUpdate trims the profile fields and checks the request.
func normalizeAccountUpdate(req dto.UpdateAccountRequest) (dto.UpdateAccountRequest, error) {
	if req.CurrentPassword == "" {
		return req, errCurrentPasswordRequired
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" && req.Email == "" && req.NewPassword == "" {
		return req, errNothingToUpdate
	}
	if req.Email != "" && !emailRegexp.MatchString(req.Email) {
		return req, errInvalidEmail
	}
	if req.NewPassword != "" && utf8.RuneCountInString(req.NewPassword) < MinPasswordLength {
		return req, errPasswordTooShort
	}
	return req, nil
}

func validateDeleteAccount(req dto.DeleteAccountRequest) error {
	if req.Password == "" {
		return errDeletePasswordRequired
	}
	return nil
}
