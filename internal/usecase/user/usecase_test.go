package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/burbla/burbla-backend/internal/repository"
)

type memUserRepo struct {
	users map[string]*entity.User
}

var _ repository.UserRepository = &memUserRepo{}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *entity.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetUserByGmail(_ context.Context, gmail string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Gmail != nil && *user.Gmail == gmail {
			clone := *user
			return &clone, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *memUserRepo) UpdateUser(_ context.Context, user *entity.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return entity.ErrUserNotFound
	}
	if user.Name != nil {
		stored.Name = user.Name
	}
	if user.Preferences != nil {
		stored.Preferences = user.Preferences
	}
	if user.Location != nil {
		stored.Location = user.Location
	}
	return nil
}

func TestAuthenticate(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUsecase(repo, zap.NewNop())
	ctx := context.Background()

	name := "Alice"
	created, err := uc.Authenticate(ctx, &entity.AuthenticationRequest{
		Gmail: "alice@gmail.com",
		Name:  &name,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "user_"))
	require.NotNil(t, created.Gmail)
	assert.Equal(t, "alice@gmail.com", *created.Gmail)

	// second login finds the same profile instead of creating another
	again, err := uc.Authenticate(ctx, &entity.AuthenticationRequest{Gmail: "alice@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, repo.users, 1)
}

func TestUpdateProfile(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUsecase(repo, zap.NewNop())
	ctx := context.Background()

	created, err := uc.Authenticate(ctx, &entity.AuthenticationRequest{Gmail: "bob@gmail.com"})
	require.NoError(t, err)

	location := "Houston, TX"
	updated, err := uc.UpdateProfile(ctx, &entity.User{ID: created.ID, Location: &location})
	require.NoError(t, err)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Houston, TX", *updated.Location)

	_, err = uc.UpdateProfile(ctx, &entity.User{ID: "user_ghost"})
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestGetUser_Unknown(t *testing.T) {
	uc := NewUsecase(newMemUserRepo(), zap.NewNop())

	_, err := uc.GetUser(context.Background(), "user_ghost")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
