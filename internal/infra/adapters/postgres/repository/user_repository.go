package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MemStudy/internal/domain/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password, created_at, updated_at)
		VALUES (:id, :username, :password, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}

	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	query := "SELECT id, username, password, created_at, updated_at FROM users WHERE id = $1"

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("get user by id: %w", mapError(err))
	}

	return &user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := "SELECT id, username, password, created_at, updated_at FROM users WHERE username = $1"

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("get user by username: %w", mapError(err))
	}

	return &user, nil
}
