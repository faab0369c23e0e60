package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/domain/input"
)

type Flashcard struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FolderID  uuid.UUID `json:"folder_id" db:"folder_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewFlashcard(input *input.CreateFlashcardInput) *Flashcard {
	now := time.Now()

	return &Flashcard{
		ID:        uuid.New(),
		FolderID:  input.FolderID,
		UserID:    input.UserID,
		Question:  input.Question,
		Answer:    input.Answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
