package attemptengine

import (
	"time"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// Status описывает фазу попытки
type Status string

const (
	// StatusInProgress — пользователь отвечает на текущий вопрос
	StatusInProgress Status = "in_progress"
	// StatusAnswerSubmitted — ответ отправлен, показаны правильность и объяснение
	StatusAnswerSubmitted Status = "answer_submitted"
	// StatusCompleted — попытка завершена, изменения запрещены
	StatusCompleted Status = "completed"
)

// RandomizedQuestion — вопрос в рамках одной попытки: исходный вопрос,
// его исходный индекс до перемешивания, перемешанные варианты и индекс
// правильного варианта в перемешанном порядке. Неизменяем на время попытки.
type RandomizedQuestion struct {
	Question      entity.Question
	OriginalIndex int
	Options       []string
	CorrectIndex  int
}

// AttemptState — состояние одной живой попытки прохождения теста.
// Все мутации сериализуются движком; прямой конкурентный доступ запрещён.
type AttemptState struct {
	AttemptID string
	UserID    uint
	Username  string
	SectionID uint
	ModuleID  uint

	// Questions — фиксированный порядок предъявления на эту попытку
	Questions []RandomizedQuestion

	// Answers — выбранный текст по ПОЗИЦИИ В РАНДОМИЗИРОВАННОМ порядке.
	// Ключи — только реально отвеченные позиции.
	Answers map[int]string

	// Scored — позиции, чья правильность уже входит в CorrectCount:
	// отправленные в этой попытке плюс все восстановленные из черновика.
	// Счёт пересчитывается по этому множеству, а не наращивается слепо,
	// поэтому повторная отправка восстановленного ответа его не задваивает.
	Scored map[int]bool

	CurrentPosition int
	CorrectCount    int
	Submitted       bool // Отправлен ли ответ на текущей позиции
	Completed       bool
	StartedAt       time.Time
}

// randomize строит рандомизированный список вопросов: перемешивается
// порядок вопросов и, независимо, варианты каждого вопроса.
// При дублирующихся текстах вариантов правильным считается первый
// совпавший — так ведёт себя и клиент.
func randomize(questions []entity.Question, shuffler *Shuffler) []RandomizedQuestion {
	order := shuffler.Perm(len(questions))

	randomized := make([]RandomizedQuestion, 0, len(questions))
	for _, originalIdx := range order {
		q := questions[originalIdx]
		options := shuffler.Strings(q.Options)

		correctIdx := 0
		for i, opt := range options {
			if opt == q.CorrectAnswer {
				correctIdx = i
				break
			}
		}

		randomized = append(randomized, RandomizedQuestion{
			Question:      q,
			OriginalIndex: originalIdx,
			Options:       options,
			CorrectIndex:  correctIdx,
		})
	}
	return randomized
}

// Current возвращает вопрос на текущей позиции
func (s *AttemptState) Current() *RandomizedQuestion {
	if s.CurrentPosition < 0 || s.CurrentPosition >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentPosition]
}

// SelectedAnswer возвращает выбранный ответ на текущей позиции
func (s *AttemptState) SelectedAnswer() (string, bool) {
	answer, ok := s.Answers[s.CurrentPosition]
	return answer, ok
}

// Status возвращает текущую фазу попытки
func (s *AttemptState) Status() Status {
	switch {
	case s.Completed:
		return StatusCompleted
	case s.Submitted:
		return StatusAnswerSubmitted
	default:
		return StatusInProgress
	}
}

// SelectAnswer записывает выбор ответа на текущем вопросе.
// До отправки выбор можно менять сколько угодно раз; после отправки
// выбор отклоняется без изменения состояния.
func (s *AttemptState) SelectAnswer(answer string) error {
	if s.Completed {
		return ErrAttemptCompleted
	}
	if s.Submitted {
		return ErrAnswerAlreadySubmitted
	}

	current := s.Current()
	if current == nil {
		return ErrNoActiveAttempt
	}

	found := false
	for _, opt := range current.Options {
		if opt == answer {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownOption
	}

	s.Answers[s.CurrentPosition] = answer
	return nil
}

// SubmitAnswer фиксирует выбранный ответ: проверяет правильность против
// индекса правильного варианта, пересчитывает счётчик и открывает объяснение.
// Отправка без выбранного ответа отклоняется без изменения состояния.
func (s *AttemptState) SubmitAnswer() (bool, error) {
	if s.Completed {
		return false, ErrAttemptCompleted
	}
	if s.Submitted {
		return false, ErrAnswerAlreadySubmitted
	}

	current := s.Current()
	if current == nil {
		return false, ErrNoActiveAttempt
	}

	answer, ok := s.Answers[s.CurrentPosition]
	if !ok {
		return false, ErrNoAnswerSelected
	}

	correct := answer == current.Options[current.CorrectIndex]
	s.Scored[s.CurrentPosition] = true
	s.recount()
	s.Submitted = true

	return correct, nil
}

// recount пересчитывает CorrectCount по оценённым позициям. Если
// восстановленный ответ был заменён перед отправкой, старое значение
// выпадает из счёта автоматически.
func (s *AttemptState) recount() {
	count := 0
	for position := range s.Scored {
		if position < 0 || position >= len(s.Questions) {
			continue
		}
		if s.Answers[position] == s.Questions[position].Question.CorrectAnswer {
			count++
		}
	}
	s.CorrectCount = count
}

// Advance переходит к следующему вопросу либо завершает попытку.
// Переход без отправленного ответа отклоняется: отправка обязательна.
// Возвращает true, если попытка завершена.
func (s *AttemptState) Advance() (bool, error) {
	if s.Completed {
		return false, ErrAttemptCompleted
	}
	if !s.Submitted {
		return false, ErrAnswerNotSubmitted
	}

	if s.CurrentPosition >= len(s.Questions)-1 {
		s.Completed = true
		return true, nil
	}

	s.CurrentPosition++
	s.Submitted = false
	// Ранее выбранный ответ для этой позиции (если есть) остаётся
	// в Answers и будет показан как предвыбранный
	return false, nil
}

// AnswersByOriginalIndex переводит ответы из рандомизированных позиций
// в исходные индексы вопросов. Черновик хранится ТОЛЬКО в исходных
// индексах, иначе его нельзя сопоставить с другой рандомизацией.
func (s *AttemptState) AnswersByOriginalIndex() map[int]string {
	answers := make(map[int]string, len(s.Answers))
	for position, answer := range s.Answers {
		if position >= 0 && position < len(s.Questions) {
			answers[s.Questions[position].OriginalIndex] = answer
		}
	}
	return answers
}

// CurrentOriginalIndex возвращает исходный индекс текущего вопроса
func (s *AttemptState) CurrentOriginalIndex() int {
	current := s.Current()
	if current == nil {
		return 0
	}
	return current.OriginalIndex
}

// DraftRecord строит снимок попытки для координатора черновиков
func (s *AttemptState) DraftRecord() *DraftRecord {
	return &DraftRecord{
		Answers:      s.AnswersByOriginalIndex(),
		CurrentIndex: s.CurrentOriginalIndex(),
		SavedAt:      time.Now(),
	}
}

// AttemptSnapshot — неизменяемая копия состояния попытки для хендлеров
type AttemptSnapshot struct {
	AttemptID       string
	SectionID       uint
	ModuleID        uint
	Status          Status
	Questions       []RandomizedQuestion
	Answers         map[int]string
	CurrentPosition int
	CorrectCount    int
	TotalQuestions  int
}

// Snapshot возвращает копию состояния: хендлеры не должны видеть
// живую структуру, которую движок продолжает мутировать.
func (s *AttemptState) Snapshot() *AttemptSnapshot {
	questions := make([]RandomizedQuestion, len(s.Questions))
	copy(questions, s.Questions)

	answers := make(map[int]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}

	return &AttemptSnapshot{
		AttemptID:       s.AttemptID,
		SectionID:       s.SectionID,
		ModuleID:        s.ModuleID,
		Status:          s.Status(),
		Questions:       questions,
		Answers:         answers,
		CurrentPosition: s.CurrentPosition,
		CorrectCount:    s.CorrectCount,
		TotalQuestions:  len(s.Questions),
	}
}
