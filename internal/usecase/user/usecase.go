package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

// Usecase implements user business logic
type Usecase struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUsecase creates a new user use case
func NewUsecase(userRepo repository.UserRepository, logger *zap.Logger) *Usecase {
	return &Usecase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUser fetches a user profile by id
func (uc *Usecase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// Authenticate looks a user up by gmail, creating the profile on first login.
func (uc *Usecase) Authenticate(ctx context.Context, req *entity.AuthenticationRequest) (*entity.User, error) {
	user, err := uc.userRepo.GetUserByGmail(ctx, req.Gmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user by gmail: %w", err)
	}

	gmail := req.Gmail
	user = &entity.User{
		ID:    "user_" + uuid.NewString(),
		Name:  req.Name,
		Gmail: &gmail,
	}

	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	ctxzap.Info(ctx, "user created on first login", zap.String("user_id", user.ID))

	return user, nil
}

// UpdateProfile updates the mutable profile fields
func (uc *Usecase) UpdateProfile(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := uc.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	updated, err := uc.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get user after update: %w", err)
	}

	return updated, nil
}
