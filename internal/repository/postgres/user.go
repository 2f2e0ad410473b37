package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

const userColumns = "u.id, u.name, u.username, u.email, u.password_hash, u.created_at"

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) repository.Users {
	return &userRepo{
		db: db,
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user      model.User
		createdAt time.Time
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
	); err != nil {
		return nil, mapErr(err)
	}

	user.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	createdAt := time.Now().UTC()
	if user.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, user.CreatedAt); err == nil {
			createdAt = parsed
		}
	}

	_, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, name, username, email, password_hash, created_at) VALUES($1, $2, $3, $4, $5, $6)",
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		createdAt,
	)
	if err != nil {
		return nil, uniqueErr(err)
	}

	user.CreatedAt = createdAt.Format(time.RFC3339)
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id))
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.username = $1", username))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1 LIMIT 1", email))
}

func (r *userRepo) ExistsWithUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users u WHERE u.username = $1)", username).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id string, updates map[string]interface{}) error {
	updates = repository.FilterUserUpdates(updates)
	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	return expectAffected(tag, uniqueErr(err))
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) error {
	return expectAffected(r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id))
}
