// Package memory keeps documents in mutex-guarded maps. It backs the tests
// and single-process development setups.
package memory

import (
	"time"

	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
)

// New returns a repository whose stores and cache all live in memory. now
// stamps created users and posts; nil means time.Now.
func New(now func() time.Time) *repository.Repository {
	if now == nil {
		now = time.Now
	}
	return repository.New(
		newUserRepo(now),
		newPostRepo(now),
		newSettingsRepo(),
		redisrepo.NewMemory(),
	)
}
