package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
	"github.com/yourusername/secaware-api/pkg/auth"
)

// ============================================================================
// Моки для тестирования AuthService
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) AddExperience(userID uint, xpDelta int, passed bool) (*entity.User, error) {
	args := m.Called(userID, xpDelta, passed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// ============================================================================
// Вспомогательные функции
// ============================================================================

func newTestAuthService(t *testing.T) (*AuthService, *MockUserRepository) {
	t.Helper()

	userRepo := new(MockUserRepository)
	jwtService, err := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, err)

	svc, err := NewAuthService(userRepo, jwtService)
	require.NoError(t, err)
	return svc, userRepo
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// ============================================================================
// Тесты
// ============================================================================

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	jwtService, err := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, err)

	_, err = NewAuthService(nil, jwtService)
	assert.Error(t, err)

	_, err = NewAuthService(new(MockUserRepository), nil)
	assert.Error(t, err)
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	svc, userRepo := newTestAuthService(t)

	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		u := args.Get(0).(*entity.User)
		u.ID = 1
	}).Return(nil)

	// Act
	user, token, err := svc.Register(RegisterInput{
		Username: "  newbie  ",
		Email:    "  NewUser@Example.COM ",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username, "имя пользователя нормализуется")
	assert.Equal(t, "newuser@example.com", user.Email, "email приводится к нижнему регистру")
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, 1, user.Level)
	assert.NotEmpty(t, token)

	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateReturnsConflict(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(apperrors.ErrConflict)

	_, _, err := svc.Register(RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	stored := &entity.User{
		ID:       7,
		Username: "student",
		Email:    "student@example.com",
		Password: hashedPassword(t, "correct-password"),
		Role:     "user",
	}
	userRepo.On("GetByEmail", "student@example.com").Return(stored, nil)

	user, token, err := svc.Login("Student@Example.com", "correct-password")

	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, token)

	// Токен должен раскрываться обратно в те же claims
	jwtService, jwtErr := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, jwtErr)
	claims, parseErr := jwtService.ParseToken(token)
	require.NoError(t, parseErr)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	stored := &entity.User{
		ID:       7,
		Email:    "student@example.com",
		Password: hashedPassword(t, "correct-password"),
	}
	userRepo.On("GetByEmail", "student@example.com").Return(stored, nil)

	_, _, err := svc.Login("student@example.com", "wrong-password")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_UnknownEmailGivesSameError(t *testing.T) {
	// Несуществующий email не должен отличаться от неверного пароля,
	// иначе по ответу можно перебирать зарегистрированные адреса
	svc, userRepo := newTestAuthService(t)

	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.Login("ghost@example.com", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProfile_ChangesOnlyProvidedFields(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	stored := &entity.User{
		ID:             3,
		Username:       "oldname",
		ProfilePicture: "old.png",
	}
	userRepo.On("GetByID", uint(3)).Return(stored, nil)
	userRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := svc.UpdateProfile(3, "newname", "")

	require.NoError(t, err)
	assert.Equal(t, "newname", user.Username)
	assert.Equal(t, "old.png", user.ProfilePicture, "пустое значение не затирает картинку")
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	svc, userRepo := newTestAuthService(t)

	userRepo.On("GetByID", uint(3)).Return(&entity.User{ID: 3, Username: "oldname"}, nil)
	userRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(apperrors.ErrConflict)

	_, err := svc.UpdateProfile(3, "taken", "")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
