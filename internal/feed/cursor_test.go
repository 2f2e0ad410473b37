package feed

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

func TestCursor(t *testing.T) {
	key := model.PageKey{Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC), ID: "post-1"}

	parsed, err := ParseCursor(NewCursor(key))
	require.NoError(t, err)
	assert.True(t, key.Timestamp.Equal(parsed.Timestamp))
	assert.Equal(t, key.ID, parsed.ID)

	parsed, err = ParseCursor("")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseCursor_Invalid(t *testing.T) {
	for name, c := range map[string]Cursor{
		"not base64": "%%%",
		"not json":   Cursor(base64.RawURLEncoding.EncodeToString([]byte("hello"))),
		"missing id": Cursor(base64.RawURLEncoding.EncodeToString([]byte(`{"ts":"2024-01-15T10:30:00Z"}`))),
		"missing ts": Cursor(base64.RawURLEncoding.EncodeToString([]byte(`{"id":"x"}`))),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCursor(c)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestShouldLoadMore(t *testing.T) {
	tests := []struct {
		name                               string
		viewport, scrollTop, contentHeight float64
		want                               bool
	}{
		{"top of long feed", 800, 0, 3000, false},
		{"just outside threshold", 800, 2099, 3000, false},
		{"at threshold", 800, 2100, 3000, true},
		{"bottom", 800, 2200, 3000, true},
		{"short content", 800, 0, 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldLoadMore(tt.viewport, tt.scrollTop, tt.contentHeight))
		})
	}
}
