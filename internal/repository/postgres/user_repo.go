package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		// Дубликат username/email по уникальным индексам
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already taken", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// AddExperience атомарно начисляет опыт и пересчитывает уровень.
// Счётчики попыток обновляются в той же транзакции, чтобы статистика
// профиля не расходилась с суммой XP.
func (r *UserRepo) AddExperience(userID uint, xpDelta int, passed bool) (*entity.User, error) {
	var user entity.User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"xp":            gorm.Expr("xp + ?", xpDelta),
			"quizzes_taken": gorm.Expr("quizzes_taken + 1"),
		}
		if passed {
			updates["quizzes_passed"] = gorm.Expr("quizzes_passed + 1")
		}

		result := tx.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}

		// Перечитываем пользователя и пересчитываем уровень по новому XP
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		newLevel := entity.LevelForXP(user.XP)
		if newLevel != user.Level {
			if err := tx.Model(&entity.User{}).Where("id = ?", userID).
				Update("level", newLevel).Error; err != nil {
				return err
			}
			user.Level = newLevel
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetLeaderboard возвращает пользователей, отсортированных по XP (по убыванию)
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	if err := r.db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("xp DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
