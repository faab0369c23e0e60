package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(username, passwordHash string) *User {
	now := time.Now()

	return &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
