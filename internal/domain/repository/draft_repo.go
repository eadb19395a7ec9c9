package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// DraftRepository определяет методы удалённого хранилища черновиков попыток.
// Отсутствие черновика — валидный ответ (ErrNotFound), а не сбой.
type DraftRepository interface {
	// Upsert сохраняет черновик, перезаписывая существующий для пары user+section
	Upsert(draft *entity.QuizDraft) error
	Get(userID, sectionID uint) (*entity.QuizDraft, error)
	Delete(userID, sectionID uint) error
}
