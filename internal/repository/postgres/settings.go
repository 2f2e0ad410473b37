package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type settingsRepo struct {
	db *pgxpool.Pool
}

func newSettingsRepo(db *pgxpool.Pool) repository.Settings {
	return &settingsRepo{
		db: db,
	}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	err := r.db.QueryRow(ctx, "SELECT auto_approve FROM settings WHERE id = $1", model.GlobalSettingsID).Scan(&settings.AutoApprove)
	if err := mapErr(err); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.Settings{}, nil
		}
		return nil, err
	}

	return &settings, nil
}

func (r *settingsRepo) Put(ctx context.Context, settings model.Settings) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO settings(id, auto_approve) VALUES($1, $2) ON CONFLICT (id) DO UPDATE SET auto_approve = EXCLUDED.auto_approve",
		model.GlobalSettingsID,
		settings.AutoApprove,
	)
	return err
}
