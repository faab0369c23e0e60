package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/domain/models"
)

type FolderRequest struct {
	Name string `json:"name"`
}

type FolderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewFolderResponse(f *models.Folder) FolderResponse {
	return FolderResponse{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func NewFolderListResponse(folders []*models.Folder) []FolderResponse {
	resp := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		resp = append(resp, NewFolderResponse(f))
	}

	return resp
}

type CreateFlashcardRequest struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	FolderID uuid.UUID `json:"folderId"`
}

// UpdateFlashcardRequest - отсутствующие поля не меняются
type UpdateFlashcardRequest struct {
	Question *string    `json:"question"`
	Answer   *string    `json:"answer"`
	FolderID *uuid.UUID `json:"folderId"`
}

type FlashcardResponse struct {
	ID        uuid.UUID `json:"id"`
	FolderID  uuid.UUID `json:"folderId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewFlashcardResponse(c *models.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:        c.ID,
		FolderID:  c.FolderID,
		Question:  c.Question,
		Answer:    c.Answer,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewFlashcardListResponse(cards []*models.Flashcard) []FlashcardResponse {
	resp := make([]FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, NewFlashcardResponse(c))
	}

	return resp
}
