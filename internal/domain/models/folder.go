package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/domain/input"
)

type Folder struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewFolder(input *input.CreateFolderInput) *Folder {
	now := time.Now()

	return &Folder{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
