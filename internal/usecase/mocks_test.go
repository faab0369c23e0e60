package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qrave1/MemStudy/internal/domain/models"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *userRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)

	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type folderRepoMock struct {
	mock.Mock
}

func (m *folderRepoMock) Create(ctx context.Context, folder *models.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *folderRepoMock) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error) {
	args := m.Called(ctx, id, userID)

	folder, _ := args.Get(0).(*models.Folder)
	return folder, args.Error(1)
}

func (m *folderRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error) {
	args := m.Called(ctx, userID)

	folders, _ := args.Get(0).([]*models.Folder)
	return folders, args.Error(1)
}

func (m *folderRepoMock) Rename(ctx context.Context, id, userID uuid.UUID, name string) error {
	return m.Called(ctx, id, userID, name).Error(0)
}

func (m *folderRepoMock) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

type flashcardRepoMock struct {
	mock.Mock
}

func (m *flashcardRepoMock) Create(ctx context.Context, card *models.Flashcard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *flashcardRepoMock) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Flashcard, error) {
	args := m.Called(ctx, id, userID)

	card, _ := args.Get(0).(*models.Flashcard)
	return card, args.Error(1)
}

func (m *flashcardRepoMock) List(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*models.Flashcard, error) {
	args := m.Called(ctx, userID, folderID)

	cards, _ := args.Get(0).([]*models.Flashcard)
	return cards, args.Error(1)
}

func (m *flashcardRepoMock) Update(ctx context.Context, card *models.Flashcard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *flashcardRepoMock) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *flashcardRepoMock) FindByFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*models.Flashcard, error) {
	args := m.Called(ctx, folderID, ownerID)

	cards, _ := args.Get(0).([]*models.Flashcard)
	return cards, args.Error(1)
}
