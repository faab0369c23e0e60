package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/domain/input"
	"github.com/qrave1/MemStudy/internal/domain/models"
	"github.com/qrave1/MemStudy/internal/infra/adapters/postgres/repository"
)

var (
	ErrFolderNotFound    = errors.New("folder not found")
	ErrFolderExists      = errors.New("folder with this name already exists")
	ErrFlashcardNotFound = errors.New("flashcard not found")
)

// FolderUsecase - папки и карточки пользователя
type FolderUsecase interface {
	ListFolders(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, in *input.CreateFolderInput) (*models.Folder, error)
	RenameFolder(ctx context.Context, in *input.RenameFolderInput) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id, userID uuid.UUID) error

	ListFlashcards(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*models.Flashcard, error)
	CreateFlashcard(ctx context.Context, in *input.CreateFlashcardInput) (*models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, in *input.UpdateFlashcardInput) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id, userID uuid.UUID) error
}

type folderUsecase struct {
	folderRepo    repository.FolderRepository
	flashcardRepo repository.FlashcardRepository
}

func NewFolderUsecase(folderRepo repository.FolderRepository, flashcardRepo repository.FlashcardRepository) FolderUsecase {
	return &folderUsecase{
		folderRepo:    folderRepo,
		flashcardRepo: flashcardRepo,
	}
}

func (uc *folderUsecase) ListFolders(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error) {
	return uc.folderRepo.ListByUser(ctx, userID)
}

func (uc *folderUsecase) CreateFolder(ctx context.Context, in *input.CreateFolderInput) (*models.Folder, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	folder := models.NewFolder(in)

	if err := uc.folderRepo.Create(ctx, folder); err != nil {
		return nil, folderError(err)
	}

	return folder, nil
}

func (uc *folderUsecase) RenameFolder(ctx context.Context, in *input.RenameFolderInput) (*models.Folder, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if err := uc.folderRepo.Rename(ctx, in.ID, in.UserID, in.Name); err != nil {
		return nil, folderError(err)
	}

	folder, err := uc.folderRepo.GetByID(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, folderError(err)
	}

	return folder, nil
}

func (uc *folderUsecase) DeleteFolder(ctx context.Context, id, userID uuid.UUID) error {
	return folderError(uc.folderRepo.Delete(ctx, id, userID))
}

func (uc *folderUsecase) ListFlashcards(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*models.Flashcard, error) {
	return uc.flashcardRepo.List(ctx, userID, folderID)
}

func (uc *folderUsecase) CreateFlashcard(ctx context.Context, in *input.CreateFlashcardInput) (*models.Flashcard, error) {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)

	if in.Question == "" || in.Answer == "" || in.FolderID == uuid.Nil {
		return nil, fmt.Errorf("%w: question, answer and folderId are required", ErrValidation)
	}

	// папка должна принадлежать автору карточки
	if _, err := uc.folderRepo.GetByID(ctx, in.FolderID, in.UserID); err != nil {
		return nil, folderError(err)
	}

	card := models.NewFlashcard(in)

	if err := uc.flashcardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

func (uc *folderUsecase) UpdateFlashcard(ctx context.Context, in *input.UpdateFlashcardInput) (*models.Flashcard, error) {
	card, err := uc.flashcardRepo.GetByID(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, flashcardError(err)
	}

	if in.Question != nil {
		card.Question = strings.TrimSpace(*in.Question)
	}

	if in.Answer != nil {
		card.Answer = strings.TrimSpace(*in.Answer)
	}

	if card.Question == "" || card.Answer == "" {
		return nil, fmt.Errorf("%w: question and answer must not be empty", ErrValidation)
	}

	if in.FolderID != nil && *in.FolderID != card.FolderID {
		if _, err = uc.folderRepo.GetByID(ctx, *in.FolderID, in.UserID); err != nil {
			return nil, folderError(err)
		}

		card.FolderID = *in.FolderID
	}

	if err = uc.flashcardRepo.Update(ctx, card); err != nil {
		return nil, flashcardError(err)
	}

	return card, nil
}

func (uc *folderUsecase) DeleteFlashcard(ctx context.Context, id, userID uuid.UUID) error {
	return flashcardError(uc.flashcardRepo.Delete(ctx, id, userID))
}

func folderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrFolderNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrFolderExists
	default:
		return err
	}
}

func flashcardError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFlashcardNotFound
	}

	return err
}
