package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"taskvault/internal/domain/entity"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/domain/repository"
	mockRepo "taskvault/internal/mocks/repository"
	mockService "taskvault/internal/mocks/service"
	"taskvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service  usecase.UserUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   *mockService.MockPasswordHasher
	tokenSvc *mockService.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenSvc := mockService.NewMockTokenService(t)
	txManager := &mockRepo.PassthroughTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{Users: userRepo},
	}

	service := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return userServiceFixtures{
		service:  service,
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "secret123").Return("hashed-secret", nil)
	fx.userRepo.On("FindByEmail", ctx, "new@example.com").
		Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Create", ctx, mock.MatchedBy(func(user *entity.User) bool {
		return user.Email == "new@example.com" && user.PasswordHash == "hashed-secret"
	})).Return(nil)
	fx.tokenSvc.On("Issue", mock.AnythingOfType("uuid.UUID")).Return("session-token", nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    "new@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", output.User.Email)
	assert.Equal(t, "session-token", output.Token)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "secret123").Return("hashed-secret", nil)
	fx.userRepo.On("FindByEmail", ctx, "taken@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    "taken@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserExists))
}

func TestUserService_Register_HashFailure(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "secret123").Return("", errors.New("bcrypt exploded"))

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    "new@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrUserExists))
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByEmail", ctx, "user@example.com").
		Return(&entity.User{ID: userID, Email: "user@example.com", PasswordHash: "stored-hash"}, nil)
	fx.hasher.On("Check", "secret123", "stored-hash").Return(true)
	fx.tokenSvc.On("Issue", userID).Return("session-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "user@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, output.User.ID)
	assert.Equal(t, "session-token", output.Token)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "user@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: "stored-hash"}, nil)
	fx.hasher.On("Check", "wrong", "stored-hash").Return(false)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "user@example.com",
		Password: "wrong",
	})
	require.Error(t, err)

	// A wrong password and an unknown email must be indistinguishable.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_CurrentUser_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{ID: userID, Email: "user@example.com"}, nil)

	user, err := fx.service.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestUserService_CurrentUser_Gone(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, userID).
		Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.CurrentUser(ctx, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
