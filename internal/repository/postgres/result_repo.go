package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет результат завершённой попытки
func (r *ResultRepo) Save(result *entity.QuizResult) error {
	err := r.db.Create(result).Error
	if err != nil {
		// Повторная запись того же attempt_id (уникальный индекс)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: attempt %s already recorded", apperrors.ErrConflict, result.AttemptID)
		}
		return err
	}
	return nil
}

// GetByAttemptID возвращает результат по идентификатору попытки
func (r *ResultRepo) GetByAttemptID(attemptID string) (*entity.QuizResult, error) {
	var result entity.QuizResult
	err := r.db.Where("attempt_id = ?", attemptID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetUserResults возвращает историю результатов пользователя (новые первыми)
func (r *ResultRepo) GetUserResults(userID uint, limit, offset int) ([]entity.QuizResult, int64, error) {
	var results []entity.QuizResult
	var total int64

	query := r.db.Model(&entity.QuizResult{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetSectionResults возвращает все результаты по секции (для админ-экспорта)
func (r *ResultRepo) GetSectionResults(sectionID uint) ([]entity.QuizResult, error) {
	var results []entity.QuizResult
	err := r.db.Where("section_id = ?", sectionID).
		Order("completed_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetBestUserResult возвращает лучший результат пользователя по секции
func (r *ResultRepo) GetBestUserResult(userID, sectionID uint) (*entity.QuizResult, error) {
	var result entity.QuizResult
	err := r.db.Where("user_id = ? AND section_id = ?", userID, sectionID).
		Order("percentage DESC, completed_at ASC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}
