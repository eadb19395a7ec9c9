package attemptengine

import (
	"errors"
	"time"

	"github.com/yourusername/secaware-api/internal/domain/repository"
)

// Константы по умолчанию
const (
	// DefaultPassThreshold — минимальный процент правильных ответов для зачёта
	DefaultPassThreshold = 70
	// DefaultMaxQuizXP — максимальный опыт за одну попытку теста
	DefaultMaxQuizXP = 50
	// DefaultDraftTTL — время жизни черновика в локальном кеше
	DefaultDraftTTL = 7 * 24 * time.Hour
)

// Ошибки движка попыток. Отклонённые переходы состояния — это no-op:
// состояние попытки при них не меняется.
var (
	// ErrNoActiveAttempt возвращается, когда для пользователя и секции нет живой попытки
	ErrNoActiveAttempt = errors.New("no active attempt")

	// ErrNoQuestions возвращается, когда у секции нет вопросов.
	// Это не сбой: клиент показывает состояние "тест недоступен".
	ErrNoQuestions = errors.New("section has no questions")

	// ErrAttemptCompleted возвращается при попытке изменить завершённую попытку
	ErrAttemptCompleted = errors.New("attempt is already completed")

	// ErrAnswerAlreadySubmitted возвращается при выборе ответа после отправки
	ErrAnswerAlreadySubmitted = errors.New("answer already submitted for current question")

	// ErrNoAnswerSelected возвращается при отправке без выбранного ответа
	ErrNoAnswerSelected = errors.New("no answer selected")

	// ErrAnswerNotSubmitted возвращается при переходе дальше без отправки ответа
	ErrAnswerNotSubmitted = errors.New("current answer is not submitted")

	// ErrUnknownOption возвращается, когда выбранный текст не входит в варианты вопроса
	ErrUnknownOption = errors.New("selected answer is not among question options")
)

// Config содержит настройки движка попыток
type Config struct {
	// PassThreshold — проходной порог в процентах
	PassThreshold int

	// MaxQuizXP — максимальный опыт, начисляемый за попытку
	MaxQuizXP int

	// DraftTTL — время жизни черновика в локальном кеше
	DraftTTL time.Duration

	// DraftKeyPrefix — префикс ключей черновиков в локальном кеше
	DraftKeyPrefix string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		PassThreshold:  DefaultPassThreshold,
		MaxQuizXP:      DefaultMaxQuizXP,
		DraftTTL:       DefaultDraftTTL,
		DraftKeyPrefix: "quizdraft",
	}
}

// Dependencies содержит зависимости движка попыток
type Dependencies struct {
	SectionRepo  repository.SectionRepository
	QuestionRepo repository.QuestionRepository
	UserRepo     repository.UserRepository
	ResultRepo   repository.ResultRepository

	// DraftRepo — удалённое хранилище черновиков (best-effort)
	DraftRepo repository.DraftRepository
	// CacheRepo — локальный долговечный кеш (источник восстановления)
	CacheRepo repository.CacheRepository
}
