package feed

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is an opaque token naming the last post of a page.
type Cursor string

func NewCursor(key model.PageKey) Cursor {
	raw, _ := json.Marshal(key)
	return Cursor(base64.RawURLEncoding.EncodeToString(raw))
}

// ParseCursor decodes a cursor. The empty cursor means the first page and
// yields a nil key.
func ParseCursor(c Cursor) (*model.PageKey, error) {
	if c == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var key model.PageKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, ErrInvalidCursor
	}
	if key.ID == "" || key.Timestamp.IsZero() {
		return nil, ErrInvalidCursor
	}

	return &key, nil
}
