package redisrepo

import "fmt"

const (
	USER_KEY    = "user:%s"       // <userID>
	SESSION_KEY = "session:%s:%s" // <userID>:<tokenID>
)

func UserKey(userID string) string {
	return fmt.Sprintf(USER_KEY, userID)
}

func SessionKey(userID string, tokenID string) string {
	return fmt.Sprintf(SESSION_KEY, userID, tokenID)
}

// SessionPrefix matches every session key of a user.
func SessionPrefix(userID string) string {
	return fmt.Sprintf("session:%s:", userID)
}
