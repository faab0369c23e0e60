package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MemStudy/internal/domain/models"
)

type FlashcardRepository interface {
	Create(ctx context.Context, card *models.Flashcard) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error)

	// List возвращает карточки пользователя, folderID сужает выборку до одной папки
	List(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*models.Flashcard, error)

	Update(ctx context.Context, card *models.Flashcard) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// FindByFolder отдает колоду папки в порядке создания карточек
	FindByFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*models.Flashcard, error)
}

type flashcardRepo struct {
	db *sqlx.DB
}

func NewFlashcardRepo(db *sqlx.DB) FlashcardRepository {
	return &flashcardRepo{db: db}
}

func (r *flashcardRepo) Create(ctx context.Context, card *models.Flashcard) error {
	query := `
		INSERT INTO flashcards (id, folder_id, user_id, question, answer, created_at, updated_at)
		VALUES (:id, :folder_id, :user_id, :question, :answer, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return fmt.Errorf("create flashcard: %w", mapError(err))
	}

	return nil
}

func (r *flashcardRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	var card models.Flashcard

	query := `
		SELECT id, folder_id, user_id, question, answer, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	if err := r.db.GetContext(ctx, &card, query, id, userID); err != nil {
		return nil, fmt.Errorf("get flashcard: %w", mapError(err))
	}

	return &card, nil
}

func (r *flashcardRepo) List(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*models.Flashcard, error) {
	cards := make([]*models.Flashcard, 0)

	query := `
		SELECT id, folder_id, user_id, question, answer, created_at, updated_at
		FROM flashcards
		WHERE user_id = $1 AND ($2::uuid IS NULL OR folder_id = $2)
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &cards, query, userID, folderID); err != nil {
		return nil, fmt.Errorf("list flashcards: %w", mapError(err))
	}

	return cards, nil
}

func (r *flashcardRepo) Update(ctx context.Context, card *models.Flashcard) error {
	card.UpdatedAt = time.Now()

	query := `
		UPDATE flashcards
		SET folder_id = :folder_id, question = :question, answer = :answer, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	res, err := r.db.NamedExecContext(ctx, query, card)
	if err != nil {
		return fmt.Errorf("update flashcard: %w", mapError(err))
	}

	if err = checkAffected(res); err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}

	return nil
}

func (r *flashcardRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", mapError(err))
	}

	if err = checkAffected(res); err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}

	return nil
}

func (r *flashcardRepo) FindByFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*models.Flashcard, error) {
	cards := make([]*models.Flashcard, 0)

	query := `
		SELECT id, folder_id, user_id, question, answer, created_at, updated_at
		FROM flashcards
		WHERE folder_id = $1 AND user_id = $2
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &cards, query, folderID, ownerID); err != nil {
		return nil, fmt.Errorf("find flashcards by folder: %w", mapError(err))
	}

	return cards, nil
}
