package attemptengine

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// ============================================================================
// Testify-моки для юнит-тестов координатора
// ============================================================================

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

// MockDraftRepo реализует repository.DraftRepository
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Upsert(draft *entity.QuizDraft) error {
	args := m.Called(draft)
	return args.Error(0)
}

func (m *MockDraftRepo) Get(userID, sectionID uint) (*entity.QuizDraft, error) {
	args := m.Called(userID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizDraft), args.Error(1)
}

func (m *MockDraftRepo) Delete(userID, sectionID uint) error {
	args := m.Called(userID, sectionID)
	return args.Error(0)
}

// ============================================================================
// In-memory фейки для сценарных тестов движка
// ============================================================================

// fakeCache — работающий in-memory кеш: сценарии сохранения/восстановления
// требуют реального roundtrip значений, а не проверки вызовов
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Set(key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = []byte(fmt.Sprint(value))
	return nil
}

func (f *fakeCache) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return string(data), nil
}

func (f *fakeCache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeCache) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
	return nil
}

func (f *fakeCache) GetJSON(key string, dest interface{}) error {
	f.mu.Lock()
	data, ok := f.data[key]
	f.mu.Unlock()
	if !ok {
		return apperrors.ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

// fakeDraftStore — in-memory удалённое хранилище черновиков с
// переключаемыми сбоями для проверки best-effort поведения
type fakeDraftStore struct {
	mu     sync.Mutex
	drafts map[[2]uint]*entity.QuizDraft

	upsertErr error
	getErr    error
	deleteErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[[2]uint]*entity.QuizDraft)}
}

func (f *fakeDraftStore) Upsert(draft *entity.QuizDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	copied := *draft
	f.drafts[[2]uint{draft.UserID, draft.SectionID}] = &copied
	return nil
}

func (f *fakeDraftStore) Get(userID, sectionID uint) (*entity.QuizDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	draft, ok := f.drafts[[2]uint{userID, sectionID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeDraftStore) Delete(userID, sectionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.drafts, [2]uint{userID, sectionID})
	return nil
}

func (f *fakeDraftStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drafts)
}

// blockedDraftStore держит все Upsert закрытыми до открытия gate —
// имитация зависшего удалённого хранилища
type blockedDraftStore struct {
	*fakeDraftStore
	gate chan struct{}
}

func newBlockedDraftStore() *blockedDraftStore {
	return &blockedDraftStore{
		fakeDraftStore: newFakeDraftStore(),
		gate:           make(chan struct{}),
	}
}

func (b *blockedDraftStore) Upsert(draft *entity.QuizDraft) error {
	<-b.gate
	return b.fakeDraftStore.Upsert(draft)
}

// fakeSectionRepo реализует repository.SectionRepository
type fakeSectionRepo struct {
	section *entity.Section
	err     error
}

func (f *fakeSectionRepo) Create(section *entity.Section) error { return nil }
func (f *fakeSectionRepo) GetByID(id uint) (*entity.Section, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.section, nil
}
func (f *fakeSectionRepo) GetWithQuestions(id uint) (*entity.Section, error) {
	return f.GetByID(id)
}
func (f *fakeSectionRepo) ListByModule(moduleID uint) ([]entity.Section, error) { return nil, nil }
func (f *fakeSectionRepo) Update(section *entity.Section) error                 { return nil }
func (f *fakeSectionRepo) Delete(id uint) error                                 { return nil }

// fakeQuestionRepo реализует repository.QuestionRepository
type fakeQuestionRepo struct {
	questions []entity.Question
	err       error
}

func (f *fakeQuestionRepo) Create(question *entity.Question) error      { return nil }
func (f *fakeQuestionRepo) CreateBatch(questions []entity.Question) error { return nil }
func (f *fakeQuestionRepo) GetByID(id uint) (*entity.Question, error)   { return nil, nil }
func (f *fakeQuestionRepo) GetBySectionID(sectionID uint) ([]entity.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}
func (f *fakeQuestionRepo) Update(question *entity.Question) error { return nil }
func (f *fakeQuestionRepo) Delete(id uint) error                   { return nil }

// fakeUserRepo реализует repository.UserRepository и накапливает XP
type fakeUserRepo struct {
	mu     sync.Mutex
	user   *entity.User
	xpErr  error
	awards []int
}

func (f *fakeUserRepo) Create(user *entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(id uint) (*entity.User, error) {
	if f.user == nil {
		return nil, apperrors.ErrNotFound
	}
	return f.user, nil
}
func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error)       { return nil, nil }
func (f *fakeUserRepo) GetByUsername(username string) (*entity.User, error) { return nil, nil }
func (f *fakeUserRepo) Update(user *entity.User) error                      { return nil }
func (f *fakeUserRepo) AddExperience(userID uint, xpDelta int, passed bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.xpErr != nil {
		return nil, f.xpErr
	}
	f.user.XP += int64(xpDelta)
	f.user.Level = entity.LevelForXP(f.user.XP)
	f.awards = append(f.awards, xpDelta)
	copied := *f.user
	return &copied, nil
}
func (f *fakeUserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	return nil, 0, nil
}

// fakeResultRepo реализует repository.ResultRepository
type fakeResultRepo struct {
	mu      sync.Mutex
	saved   []entity.QuizResult
	saveErr error
}

func (f *fakeResultRepo) Save(result *entity.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *result)
	return nil
}
func (f *fakeResultRepo) GetByAttemptID(attemptID string) (*entity.QuizResult, error) {
	return nil, nil
}
func (f *fakeResultRepo) GetUserResults(userID uint, limit, offset int) ([]entity.QuizResult, int64, error) {
	return nil, 0, nil
}
func (f *fakeResultRepo) GetSectionResults(sectionID uint) ([]entity.QuizResult, error) {
	return nil, nil
}
func (f *fakeResultRepo) GetBestUserResult(userID, sectionID uint) (*entity.QuizResult, error) {
	return nil, nil
}

// ============================================================================
// Общие хелперы тестовых данных
// ============================================================================

// testQuestions строит n вопросов с четырьмя вариантами; правильный —
// "Correct-<позиция>", остальные заведомо неправильные
func testQuestions(n int) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, entity.Question{
			ID:        uint(i + 1),
			SectionID: 1,
			Text:      fmt.Sprintf("Вопрос %d", i),
			Options: entity.StringArray{
				fmt.Sprintf("Correct-%d", i),
				fmt.Sprintf("Wrong-%d-a", i),
				fmt.Sprintf("Wrong-%d-b", i),
				fmt.Sprintf("Wrong-%d-c", i),
			},
			CorrectAnswer: fmt.Sprintf("Correct-%d", i),
			Explanation:   fmt.Sprintf("Объяснение %d", i),
			Position:      i,
		})
	}
	return questions
}

// newTestEngine собирает движок на in-memory фейках
func newTestEngine(questions []entity.Question) (*AttemptEngine, *fakeCache, *fakeDraftStore, *fakeUserRepo, *fakeResultRepo) {
	cache := newFakeCache()
	drafts := newFakeDraftStore()
	users := &fakeUserRepo{user: &entity.User{ID: 42, Username: "student", Level: 1}}
	results := &fakeResultRepo{}

	deps := &Dependencies{
		SectionRepo:  &fakeSectionRepo{section: &entity.Section{ID: 1, ModuleID: 7, Title: "Фишинг"}},
		QuestionRepo: &fakeQuestionRepo{questions: questions},
		UserRepo:     users,
		ResultRepo:   results,
		DraftRepo:    drafts,
		CacheRepo:    cache,
	}

	engine := NewAttemptEngine(DefaultConfig(), deps)
	return engine, cache, drafts, users, results
}
