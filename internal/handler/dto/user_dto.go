package dto

import (
	"time"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// UserResponse представляет профиль пользователя в формате для ответа клиенту
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	XP             int64     `json:"xp"`
	Level          int       `json:"level"`
	QuizzesTaken   int64     `json:"quizzes_taken"`
	QuizzesPassed  int64     `json:"quizzes_passed"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		XP:             user.XP,
		Level:          user.Level,
		QuizzesTaken:   user.QuizzesTaken,
		QuizzesPassed:  user.QuizzesPassed,
		CreatedAt:      user.CreatedAt,
	}
}

// AuthResponse — ответ на регистрацию/вход: профиль плюс access-токен
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// LeaderboardUserDTO представляет строку лидерборда
type LeaderboardUserDTO struct {
	Rank           int    `json:"rank"`
	UserID         uint   `json:"user_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	XP             int64  `json:"xp"`
	Level          int    `json:"level"`
	QuizzesPassed  int64  `json:"quizzes_passed"`
}

// PaginatedLeaderboardResponse представляет пагинированный лидерборд
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}
