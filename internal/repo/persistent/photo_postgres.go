package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/postgres"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const (
	// Table
	photosTable = "photos"

	// Columns
	idColumn           = "id"
	ownerColumn        = "owner_profile_id"
	storageKeyColumn   = "storage_key"
	thumbnailKeyColumn = "thumbnail_key"
	urlColumn          = "url"
	contentHashColumn  = "content_hash"
	contentTypeColumn  = "content_type"
	sizeColumn         = "size"
	widthColumn        = "width"
	heightColumn       = "height"
	displayOrderColumn = "display_order"
	isPrimaryColumn    = "is_primary"
	statusColumn       = "moderation_status"
	createdAtColumn    = "created_at"
	resolvedAtColumn   = "resolved_at"
)

var photoColumns = []string{
	idColumn,
	ownerColumn,
	storageKeyColumn,
	thumbnailKeyColumn,
	urlColumn,
	contentHashColumn,
	contentTypeColumn,
	sizeColumn,
	widthColumn,
	heightColumn,
	displayOrderColumn,
	isPrimaryColumn,
	statusColumn,
	createdAtColumn,
	resolvedAtColumn,
}

type PhotoMetadataRepo struct {
	*postgres.Postgres
}

func NewPhotoMetadataRepo(pg *postgres.Postgres) *PhotoMetadataRepo {
	return &PhotoMetadataRepo{pg}
}

// Create inserts the metadata row with ON CONFLICT (owner, content_hash)
// DO NOTHING. A conflict means the same content is already recorded for
// this owner; the existing row stays authoritative and created is false.
func (r *PhotoMetadataRepo) Create(ctx context.Context, photo *entity.Photo) (bool, error) {
	sql, args, err := r.Builder.
		Insert(photosTable).
		Columns(
			idColumn,
			ownerColumn,
			storageKeyColumn,
			thumbnailKeyColumn,
			urlColumn,
			contentHashColumn,
			contentTypeColumn,
			sizeColumn,
			widthColumn,
			heightColumn,
			displayOrderColumn,
			isPrimaryColumn,
			statusColumn,
			createdAtColumn,
		).
		Values(
			photo.ID,
			photo.OwnerProfileID,
			photo.StorageKey,
			photo.ThumbnailKey,
			photo.URL,
			photo.ContentHash,
			photo.ContentType,
			photo.Size,
			photo.Width,
			photo.Height,
			photo.DisplayOrder,
			photo.IsPrimary,
			photo.Status,
			photo.CreatedAt,
		).
		Suffix(fmt.Sprintf("ON CONFLICT (%s, %s) DO NOTHING", ownerColumn, contentHashColumn)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("PhotoMetadataRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("PhotoMetadataRepo - Create - executor.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PhotoMetadataRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	sql, args, err := r.Builder.
		Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoMetadataRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	photo, err := scanPhoto(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PhotoMetadataRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PhotoMetadataRepo - GetByID - executor.QueryRow: %w", err)
	}

	return photo, nil
}

func (r *PhotoMetadataRepo) GetByOwnerAndHash(ctx context.Context, owner uuid.UUID, hash string) (*entity.Photo, error) {
	sql, args, err := r.Builder.
		Select(photoColumns...).
		From(photosTable).
		Where(squirrel.And{
			squirrel.Eq{ownerColumn: owner},
			squirrel.Eq{contentHashColumn: hash},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoMetadataRepo - GetByOwnerAndHash - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	photo, err := scanPhoto(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PhotoMetadataRepo - GetByOwnerAndHash: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PhotoMetadataRepo - GetByOwnerAndHash - executor.QueryRow: %w", err)
	}

	return photo, nil
}

func (r *PhotoMetadataRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error) {
	sql, args, err := r.Builder.
		Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{ownerColumn: owner}).
		OrderBy(displayOrderColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoMetadataRepo - ListByOwner - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("PhotoMetadataRepo - ListByOwner - executor.Query: %w", err)
	}
	defer rows.Close()

	var photos []*entity.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("PhotoMetadataRepo - ListByOwner - rows.Scan: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PhotoMetadataRepo - ListByOwner - rows.Err: %w", err)
	}

	return photos, nil
}

func (r *PhotoMetadataRepo) CountByOwner(ctx context.Context, owner uuid.UUID) (int, error) {
	sql, args, err := r.Builder.
		Select("COUNT(*)").
		From(photosTable).
		Where(squirrel.Eq{ownerColumn: owner}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("PhotoMetadataRepo - CountByOwner - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var count int
	err = executor.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("PhotoMetadataRepo - CountByOwner - executor.QueryRow: %w", err)
	}

	return count, nil
}

// UpdateStatus applies the from -> to transition. The WHERE guard on the
// current status makes a late transition for an already resolved photo a
// zero-row update, reported as ErrRecordNotFound.
func (r *PhotoMetadataRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.ModerationStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("PhotoMetadataRepo - UpdateStatus: %w: %s -> %s", errs.ErrIllegalTransition, from, to)
	}

	now := time.Now()

	sql, args, err := r.Builder.
		Update(photosTable).
		Set(statusColumn, to).
		Set(resolvedAtColumn, now).
		Where(squirrel.And{
			squirrel.Eq{idColumn: id},
			squirrel.Eq{statusColumn: from},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - UpdateStatus - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - UpdateStatus - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoMetadataRepo - UpdateStatus: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *PhotoMetadataRepo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Delete(photosTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - Delete - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoMetadataRepo - Delete: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *PhotoMetadataRepo) ClearPrimary(ctx context.Context, owner uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(isPrimaryColumn, false).
		Where(squirrel.And{
			squirrel.Eq{ownerColumn: owner},
			squirrel.Eq{isPrimaryColumn: true},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - ClearPrimary - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	// zero rows is fine, the owner may have no primary yet
	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - ClearPrimary - executor.Exec: %w", err)
	}

	return nil
}

func (r *PhotoMetadataRepo) MarkPrimary(ctx context.Context, owner, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(isPrimaryColumn, true).
		Where(squirrel.And{
			squirrel.Eq{idColumn: id},
			squirrel.Eq{ownerColumn: owner},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - MarkPrimary - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - MarkPrimary - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoMetadataRepo - MarkPrimary: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// ShiftOrdersAfter closes the gap left by deleting the photo that held
// deletedOrder, keeping display orders dense from 0.
func (r *PhotoMetadataRepo) ShiftOrdersAfter(ctx context.Context, owner uuid.UUID, deletedOrder int) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(displayOrderColumn, squirrel.Expr(displayOrderColumn+" - 1")).
		Where(squirrel.And{
			squirrel.Eq{ownerColumn: owner},
			squirrel.Gt{displayOrderColumn: deletedOrder},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - ShiftOrdersAfter - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - ShiftOrdersAfter - executor.Exec: %w", err)
	}

	return nil
}

func (r *PhotoMetadataRepo) UpdateOrder(ctx context.Context, owner, id uuid.UUID, order int) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(displayOrderColumn, order).
		Where(squirrel.And{
			squirrel.Eq{idColumn: id},
			squirrel.Eq{ownerColumn: owner},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - UpdateOrder - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoMetadataRepo - UpdateOrder - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoMetadataRepo - UpdateOrder: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func scanPhoto(row pgx.Row) (*entity.Photo, error) {
	var photo entity.Photo

	err := row.Scan(
		&photo.ID,
		&photo.OwnerProfileID,
		&photo.StorageKey,
		&photo.ThumbnailKey,
		&photo.URL,
		&photo.ContentHash,
		&photo.ContentType,
		&photo.Size,
		&photo.Width,
		&photo.Height,
		&photo.DisplayOrder,
		&photo.IsPrimary,
		&photo.Status,
		&photo.CreatedAt,
		&photo.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	return &photo, nil
}
