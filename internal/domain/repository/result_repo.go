package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами тестов
type ResultRepository interface {
	Save(result *entity.QuizResult) error
	GetByAttemptID(attemptID string) (*entity.QuizResult, error)
	// GetUserResults возвращает историю результатов пользователя (новые первыми)
	GetUserResults(userID uint, limit, offset int) ([]entity.QuizResult, int64, error)
	// GetSectionResults возвращает все результаты по секции (для админ-экспорта)
	GetSectionResults(sectionID uint) ([]entity.QuizResult, error)
	// GetBestUserResult возвращает лучший результат пользователя по секции
	GetBestUserResult(userID, sectionID uint) (*entity.QuizResult, error)
}
