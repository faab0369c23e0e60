package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MemStudy/internal/domain/models"
)

// FolderRepository работает только с папками владельца, чужие папки для него не существуют
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error)
	Rename(ctx context.Context, id, userID uuid.UUID, name string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type folderRepo struct {
	db *sqlx.DB
}

func NewFolderRepo(db *sqlx.DB) FolderRepository {
	return &folderRepo{db: db}
}

func (r *folderRepo) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, user_id, name, created_at, updated_at)
		VALUES (:id, :user_id, :name, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, folder); err != nil {
		return fmt.Errorf("create folder: %w", mapError(err))
	}

	return nil
}

func (r *folderRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder

	query := "SELECT id, user_id, name, created_at, updated_at FROM folders WHERE id = $1 AND user_id = $2"

	if err := r.db.GetContext(ctx, &folder, query, id, userID); err != nil {
		return nil, fmt.Errorf("get folder: %w", mapError(err))
	}

	return &folder, nil
}

func (r *folderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error) {
	folders := make([]*models.Folder, 0)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY name
	`

	if err := r.db.SelectContext(ctx, &folders, query, userID); err != nil {
		return nil, fmt.Errorf("list folders: %w", mapError(err))
	}

	return folders, nil
}

func (r *folderRepo) Rename(ctx context.Context, id, userID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE folders SET name = $1, updated_at = $2 WHERE id = $3 AND user_id = $4",
		name,
		time.Now(),
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("rename folder: %w", mapError(err))
	}

	if err = checkAffected(res); err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}

	return nil
}

func (r *folderRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", mapError(err))
	}

	if err = checkAffected(res); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return nil
}
