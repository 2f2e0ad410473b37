// Package postgres stores users, posts and settings in PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

const (
	uniqueViolation = "23505"

	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

type PostgresRepository struct {
	Users    repository.Users
	Posts    repository.Posts
	Settings repository.Settings
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Users:    newUserRepo(db),
		Posts:    newPostRepo(db),
		Settings: newSettingsRepo(db),
	}
}

// Connect opens a pool and checks it with a ping.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// uniqueErr maps a unique violation on the users table to the repository
// error for the violated constraint. Other errors pass through.
func uniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case usersEmailKey:
		return repository.ErrEmailInUse
	case usersUsernameKey:
		return repository.ErrUsernameTaken
	}
	return err
}

func expectAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
