package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type userRepo struct {
	mu    sync.RWMutex
	now   func() time.Time
	users map[string]model.User
}

func newUserRepo(now func() time.Time) *userRepo {
	return &userRepo{
		now:   now,
		users: make(map[string]model.User),
	}
}

func (r *userRepo) Create(_ context.Context, user model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, repository.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return nil, repository.ErrEmailInUse
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt == "" {
		user.CreatedAt = r.now().UTC().Format(time.RFC3339)
	}
	r.users[user.ID] = user
	return &user, nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) findBy(match func(model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if match(user) {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.findBy(func(u model.User) bool { return u.Username == username })
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findBy(func(u model.User) bool { return u.Email == email })
}

func (r *userRepo) ExistsWithUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepo) UpdateByID(_ context.Context, id string, updates map[string]interface{}) error {
	updates = repository.FilterUserUpdates(updates)

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}

	if email, ok := updates[repository.FieldEmail].(string); ok {
		for otherID, other := range r.users {
			if otherID != id && other.Email == email {
				return repository.ErrEmailInUse
			}
		}
	}

	for field, value := range updates {
		s, _ := value.(string)
		switch field {
		case repository.FieldName:
			user.Name = s
		case repository.FieldEmail:
			user.Email = s
		case repository.FieldPasswordHash:
			user.PasswordHash = s
		}
	}
	r.users[id] = user
	return nil
}

func (r *userRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
