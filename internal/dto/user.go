package dto

import "github.com/nab23-dev/prompt-sci/internal/model"

type SignUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest accepts either an email address or a username.
type SignInRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateAccountRequest changes only the non-empty fields.
type UpdateAccountRequest struct {
	CurrentPassword string `json:"current_password"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	NewPassword     string `json:"new_password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type GetUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func GetUserFromUser(user model.User) GetUser {
	return GetUser{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
