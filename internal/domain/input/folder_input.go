package input

import "github.com/google/uuid"

type CreateFolderInput struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

type RenameFolderInput struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

type CreateFlashcardInput struct {
	UserID   uuid.UUID `json:"user_id"`
	FolderID uuid.UUID `json:"folder_id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

// UpdateFlashcardInput - частичное обновление, nil поля не меняются
type UpdateFlashcardInput struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	FolderID *uuid.UUID `json:"folder_id"`
	Question *string    `json:"question"`
	Answer   *string    `json:"answer"`
}
