package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/domain/repository"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
	"github.com/yourusername/secaware-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и входа пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterInput содержит данные для регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register создает нового пользователя и возвращает его вместе с access-токеном.
// Дубликат username/email приходит из репозитория как ErrConflict.
func (s *AuthService) Register(input RegisterInput) (*entity.User, string, error) {
	user := &entity.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password, // Хешируется в BeforeSave
		Role:     "user",
		Level:    1,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("%w: пользователь с таким именем или email уже существует", apperrors.ErrConflict)
		}
		log.Printf("[AuthService] Ошибка создания пользователя %s: %v", input.Email, err)
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthService] Пользователь %d создан, но выпуск токена не удался: %v", user.ID, err)
		return nil, "", err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь id=%d username=%s", user.ID, user.Username)
	return user, token, nil
}

// Login проверяет учетные данные и возвращает пользователя с access-токеном.
// Несуществующий email и неверный пароль дают одинаковую ошибку.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: неверный email или пароль", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: неверный email или пароль", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет редактируемые поля профиля
func (s *AuthService) UpdateProfile(userID uint, username, profilePicture string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = strings.TrimSpace(username)
	}
	if profilePicture != "" {
		user.ProfilePicture = profilePicture
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: имя пользователя уже занято", apperrors.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}
