package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	GetUserByGmail(ctx context.Context, gmail string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
}

var _ UserRepository = &UserPostgres{}

// UserPostgres implements UserRepository using PostgreSQL
type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

func (r *UserPostgres) CreateUser(ctx context.Context, user *entity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (user_id, name, gmail, preferences, location)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Gmail, user.Preferences, user.Location,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserPostgres) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getUser(ctx, `
		SELECT user_id, name, gmail, preferences, location
		FROM users WHERE user_id = $1`, id)
}

func (r *UserPostgres) GetUserByGmail(ctx context.Context, gmail string) (*entity.User, error) {
	return r.getUser(ctx, `
		SELECT user_id, name, gmail, preferences, location
		FROM users WHERE gmail = $1`, gmail)
}

func (r *UserPostgres) getUser(ctx context.Context, query, arg string) (*entity.User, error) {
	var user entity.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Gmail, &user.Preferences, &user.Location,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *UserPostgres) UpdateUser(ctx context.Context, user *entity.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
		    preferences = COALESCE($3, preferences),
		    location = COALESCE($4, location)
		WHERE user_id = $1`,
		user.ID, user.Name, user.Preferences, user.Location,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}
