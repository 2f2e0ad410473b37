package memory

import (
	"context"
	"sync"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

type settingsRepo struct {
	mu       sync.RWMutex
	settings *model.Settings
}

func newSettingsRepo() *settingsRepo {
	return &settingsRepo{}
}

func (r *settingsRepo) Get(_ context.Context) (*model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return &model.Settings{}, nil
	}
	settings := *r.settings
	return &settings, nil
}

func (r *settingsRepo) Put(_ context.Context, settings model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = &settings
	return nil
}
