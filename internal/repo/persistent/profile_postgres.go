package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/postgres"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const (
	profilesTable = "profiles"

	profileIDColumn = "id"
	photoBlurColumn = "photo_blur_enabled"
)

type ProfileRepo struct {
	*postgres.Postgres
}

func NewProfileRepo(pg *postgres.Postgres) *ProfileRepo {
	return &ProfileRepo{pg}
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	sql, args, err := r.Builder.
		Select(profileIDColumn, photoBlurColumn).
		From(profilesTable).
		Where(squirrel.Eq{profileIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProfileRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var profile entity.Profile
	err = executor.QueryRow(ctx, sql, args...).Scan(&profile.ID, &profile.PhotoBlurEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ProfileRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ProfileRepo - GetByID - executor.QueryRow: %w", err)
	}

	return &profile, nil
}
