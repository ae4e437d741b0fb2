package user

import (
	"context"

	"github.com/burbla/burbla-backend/internal/entity"
)

type UserUsecase interface {
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	Authenticate(ctx context.Context, req *entity.AuthenticationRequest) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) (*entity.User, error)
}
