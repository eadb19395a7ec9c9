package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// DraftRepo реализует repository.DraftRepository (удалённое хранилище черновиков)
type DraftRepo struct {
	db *gorm.DB
}

// NewDraftRepo создает новый репозиторий черновиков
func NewDraftRepo(db *gorm.DB) *DraftRepo {
	return &DraftRepo{db: db}
}

// Upsert сохраняет черновик, перезаписывая существующий для пары user+section.
// Конфликт разрешается по уникальному индексу idx_draft_user_section:
// более поздний save просто перетирает предыдущий, без версионирования.
func (r *DraftRepo) Upsert(draft *entity.QuizDraft) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "section_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answers", "current_index", "saved_at", "updated_at",
		}),
	}).Create(draft).Error
}

// Get возвращает черновик пользователя для секции
func (r *DraftRepo) Get(userID, sectionID uint) (*entity.QuizDraft, error) {
	var draft entity.QuizDraft
	err := r.db.Where("user_id = ? AND section_id = ?", userID, sectionID).
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// Delete удаляет черновик пользователя для секции.
// Удаление отсутствующего черновика не считается ошибкой.
func (r *DraftRepo) Delete(userID, sectionID uint) error {
	return r.db.Where("user_id = ? AND section_id = ?", userID, sectionID).
		Delete(&entity.QuizDraft{}).Error
}
