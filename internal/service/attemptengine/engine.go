package attemptengine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// attemptKey идентифицирует живую попытку: на пару пользователь+секция
// одновременно существует не более одной попытки.
type attemptKey struct {
	userID    uint
	sectionID uint
}

// AttemptEngine — оркестратор попыток прохождения тестов. Все переходы
// состояния происходят в ответ на дискретные действия пользователя и
// сериализуются мьютексом движка: параллельных мутаций состояния нет.
type AttemptEngine struct {
	config      *Config
	deps        *Dependencies
	coordinator *DraftCoordinator
	shuffler    *Shuffler

	mu       sync.Mutex
	attempts map[attemptKey]*AttemptState
}

// NewAttemptEngine создает новый движок попыток
func NewAttemptEngine(config *Config, deps *Dependencies) *AttemptEngine {
	return &AttemptEngine{
		config:      config,
		deps:        deps,
		coordinator: NewDraftCoordinator(config, deps.CacheRepo, deps.DraftRepo),
		shuffler:    NewShuffler(),
		attempts:    make(map[attemptKey]*AttemptState),
	}
}

// SetShuffler подменяет источник перестановок (для детерминированных тестов)
func (e *AttemptEngine) SetShuffler(shuffler *Shuffler) {
	e.shuffler = shuffler
}

// Coordinator возвращает координатор черновиков движка
func (e *AttemptEngine) Coordinator() *DraftCoordinator {
	return e.coordinator
}

// SubmitResult — раскрытие правильности после отправки ответа
type SubmitResult struct {
	Correct       bool   `json:"correct"`
	CorrectIndex  int    `json:"correct_index"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	CorrectCount  int    `json:"correct_count"`
}

// CompletionResult — итог завершённой попытки. Счёт всегда вычислен из
// локального состояния; Recorded=false означает, что серверное
// начисление XP не подтверждено (известная асимметрия, не скрываем её).
type CompletionResult struct {
	AttemptID      string       `json:"attempt_id"`
	ModuleID       uint         `json:"module_id"`
	Summary        ScoreSummary `json:"summary"`
	CorrectAnswers int          `json:"correct_answers"`
	TotalQuestions int          `json:"total_questions"`
	Recorded       bool         `json:"recorded"`
	TotalXP        int64        `json:"total_xp"`
	Level          int          `json:"level"`
}

// AdvanceResult — итог перехода: либо следующий вопрос, либо завершение
type AdvanceResult struct {
	Completed  bool
	State      *AttemptSnapshot
	Completion *CompletionResult
}

// StartAttempt открывает попытку: загружает вопросы, перемешивает их,
// подмешивает сохранённый черновик (если есть) и регистрирует попытку.
// Повторный вызов для той же пары пользователь+секция пересоздаёт
// попытку заново — с новым перемешиванием и повторным слиянием черновика.
func (e *AttemptEngine) StartAttempt(userID, sectionID uint) (*AttemptSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(userID, sectionID, true)
}

func (e *AttemptEngine) startLocked(userID, sectionID uint, useDraft bool) (*AttemptSnapshot, error) {
	// Метаданные секции: недоступность — фатальная ошибка старта
	section, err := e.deps.SectionRepo.GetByID(sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load section #%d: %w", sectionID, err)
	}

	user, err := e.deps.UserRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user #%d: %w", userID, err)
	}

	questions, err := e.deps.QuestionRepo.GetBySectionID(sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for section #%d: %w", sectionID, err)
	}

	// Пустой тест — явное терминальное состояние, а не сбой
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	state := &AttemptState{
		AttemptID: uuid.NewString(),
		UserID:    userID,
		SectionID: sectionID,
		ModuleID:  section.ModuleID,
		Username:  user.Username,
		Questions: randomize(questions, e.shuffler),
		Answers:   make(map[int]string),
		Scored:    make(map[int]bool),
		StartedAt: time.Now(),
	}

	if useDraft {
		if record, ok := e.coordinator.Load(userID, sectionID); ok {
			outcome := mergeDraft(state.Questions, record)
			state.Answers = outcome.answers
			state.Scored = outcome.scored
			state.CurrentPosition = outcome.position
			state.CorrectCount = outcome.correctCount
			// Восстановленный ответ на текущей позиции считается отправленным:
			// его правильность уже учтена в пересчитанном счёте
			state.Submitted = outcome.currentAnswered

			log.Printf("[AttemptEngine] Попытка user=%d section=%d восстановлена из черновика: %d ответов, позиция %d",
				userID, sectionID, len(outcome.answers), outcome.position)
		}
	}

	e.attempts[attemptKey{userID, sectionID}] = state
	return state.Snapshot(), nil
}

// Get возвращает снимок живой попытки
func (e *AttemptEngine) Get(userID, sectionID uint) (*AttemptSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.attempts[attemptKey{userID, sectionID}]
	if !ok {
		return nil, ErrNoActiveAttempt
	}
	return state.Snapshot(), nil
}

// SelectAnswer записывает выбор ответа и триггерит сохранение черновика
func (e *AttemptEngine) SelectAnswer(userID, sectionID uint, answer string) (*AttemptSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.attempts[attemptKey{userID, sectionID}]
	if !ok {
		return nil, ErrNoActiveAttempt
	}

	if err := state.SelectAnswer(answer); err != nil {
		return nil, err
	}

	e.coordinator.Save(userID, sectionID, state.DraftRecord())
	return state.Snapshot(), nil
}

// SubmitAnswer фиксирует ответ на текущем вопросе и раскрывает
// правильность вместе с объяснением
func (e *AttemptEngine) SubmitAnswer(userID, sectionID uint) (*SubmitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.attempts[attemptKey{userID, sectionID}]
	if !ok {
		return nil, ErrNoActiveAttempt
	}

	correct, err := state.SubmitAnswer()
	if err != nil {
		return nil, err
	}

	e.coordinator.Save(userID, sectionID, state.DraftRecord())

	current := state.Current()
	return &SubmitResult{
		Correct:       correct,
		CorrectIndex:  current.CorrectIndex,
		CorrectAnswer: current.Options[current.CorrectIndex],
		Explanation:   current.Question.Explanation,
		CorrectCount:  state.CorrectCount,
	}, nil
}

// Advance переходит к следующему вопросу, а на последнем — завершает
// попытку: подсчитывает итог, начисляет XP, пишет результат и чистит черновик
func (e *AttemptEngine) Advance(userID, sectionID uint) (*AdvanceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := attemptKey{userID, sectionID}
	state, ok := e.attempts[key]
	if !ok {
		return nil, ErrNoActiveAttempt
	}

	completed, err := state.Advance()
	if err != nil {
		return nil, err
	}

	if !completed {
		e.coordinator.Save(userID, sectionID, state.DraftRecord())
		return &AdvanceResult{State: state.Snapshot()}, nil
	}

	completion := e.completeLocked(key, state)
	return &AdvanceResult{Completed: true, Completion: completion}, nil
}

// completeLocked завершает попытку. Итог показывается пользователю из
// локально вычисленных значений даже при сбое серверной записи:
// сбой начисления/записи логируется и отражается флагом Recorded,
// но не прячется за ошибкой (известная асимметрия счёта и XP-леджера).
func (e *AttemptEngine) completeLocked(key attemptKey, state *AttemptState) *CompletionResult {
	summary := e.config.Score(state.CorrectCount, len(state.Questions))

	completion := &CompletionResult{
		AttemptID:      state.AttemptID,
		ModuleID:       state.ModuleID,
		Summary:        summary,
		CorrectAnswers: state.CorrectCount,
		TotalQuestions: len(state.Questions),
	}

	user, err := e.deps.UserRepo.AddExperience(state.UserID, summary.XPAwarded, summary.Passed)
	if err != nil {
		log.Printf("[AttemptEngine] Начисление XP за попытку %s не удалось: %v", state.AttemptID, err)
	} else {
		completion.Recorded = true
		completion.TotalXP = user.XP
		completion.Level = user.Level
	}

	result := &entity.QuizResult{
		AttemptID:      state.AttemptID,
		UserID:         state.UserID,
		SectionID:      state.SectionID,
		Username:       state.Username,
		CorrectAnswers: state.CorrectCount,
		TotalQuestions: len(state.Questions),
		Percentage:     summary.Percentage,
		Passed:         summary.Passed,
		XPAwarded:      summary.XPAwarded,
		CompletedAt:    time.Now(),
	}
	if err := e.deps.ResultRepo.Save(result); err != nil {
		log.Printf("[AttemptEngine] Запись результата попытки %s не удалась: %v", state.AttemptID, err)
		completion.Recorded = false
	}

	e.coordinator.Clear(key.userID, key.sectionID)
	delete(e.attempts, key)

	return completion
}

// Retry начинает попытку заново: черновик очищается, счётчики
// сбрасываются, вопросы перемешиваются заново
func (e *AttemptEngine) Retry(userID, sectionID uint) (*AttemptSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.coordinator.Clear(userID, sectionID)
	delete(e.attempts, attemptKey{userID, sectionID})

	return e.startLocked(userID, sectionID, false)
}

// Suspend выгружает попытку с локальной страховочной записью черновика —
// аналог сохранения при закрытии вкладки. Отсутствие попытки — no-op.
func (e *AttemptEngine) Suspend(userID, sectionID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := attemptKey{userID, sectionID}
	state, ok := e.attempts[key]
	if !ok {
		return
	}

	if !state.Completed {
		e.coordinator.SaveLocal(userID, sectionID, state.DraftRecord())
	}
	delete(e.attempts, key)
}

// FlushAll сохраняет черновики всех живых попыток в локальный кеш и
// дожидается фоновых удалённых записей. Вызывается при остановке сервера.
func (e *AttemptEngine) FlushAll() {
	e.mu.Lock()
	for key, state := range e.attempts {
		if !state.Completed {
			e.coordinator.SaveLocal(key.userID, key.sectionID, state.DraftRecord())
		}
	}
	e.mu.Unlock()

	e.coordinator.Flush()
}
