package service

import (
	"log"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/domain/repository"
)

// ResultService предоставляет методы для чтения результатов тестов.
// Запись результатов выполняет движок попыток при завершении.
type ResultService struct {
	resultRepo  repository.ResultRepository
	sectionRepo repository.SectionRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.ResultRepository, sectionRepo repository.SectionRepository) *ResultService {
	return &ResultService{
		resultRepo:  resultRepo,
		sectionRepo: sectionRepo,
	}
}

// GetUserResults возвращает пагинированную историю результатов пользователя
func (s *ResultService) GetUserResults(userID uint, page, pageSize int) ([]entity.QuizResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	results, total, err := s.resultRepo.GetUserResults(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("[ResultService] Ошибка получения истории результатов user=%d: %v", userID, err)
		return nil, 0, err
	}
	return results, total, nil
}

// GetBestUserResult возвращает лучший результат пользователя по секции
func (s *ResultService) GetBestUserResult(userID, sectionID uint) (*entity.QuizResult, error) {
	return s.resultRepo.GetBestUserResult(userID, sectionID)
}

// GetSectionResults возвращает все результаты секции вместе с самой секцией
// (для админ-отчетов и экспорта)
func (s *ResultService) GetSectionResults(sectionID uint) ([]entity.QuizResult, *entity.Section, error) {
	section, err := s.sectionRepo.GetByID(sectionID)
	if err != nil {
		return nil, nil, err
	}

	results, err := s.resultRepo.GetSectionResults(sectionID)
	if err != nil {
		log.Printf("[ResultService] Ошибка получения результатов секции #%d: %v", sectionID, err)
		return nil, nil, err
	}
	return results, section, nil
}
