package model

type User struct {
	ID           string `json:"id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email" bson:"email"`
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
	PasswordHash string `json:"-" bson:"password_hash"`
}

// DisplayName returns the name shown next to the user's posts.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return AnonymousName
}

const AnonymousName = "Anonymous"
