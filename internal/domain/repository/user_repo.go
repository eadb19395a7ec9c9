package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// AddExperience атомарно начисляет опыт и пересчитывает уровень.
	// Возвращает пользователя с обновлёнными значениями XP и Level.
	AddExperience(userID uint, xpDelta int, passed bool) (*entity.User, error)
	// GetLeaderboard возвращает пользователей, отсортированных по XP (по убыванию)
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
