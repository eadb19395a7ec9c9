package attemptengine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// answerCurrentCorrectly проходит текущий вопрос: выбор правильного
// варианта, отправка, переход
func answerCurrentCorrectly(t *testing.T, engine *AttemptEngine, userID, sectionID uint) *AdvanceResult {
	t.Helper()

	snap, err := engine.Get(userID, sectionID)
	require.NoError(t, err)
	current := snap.Questions[snap.CurrentPosition]

	_, err = engine.SelectAnswer(userID, sectionID, current.Options[current.CorrectIndex])
	require.NoError(t, err)

	submit, err := engine.SubmitAnswer(userID, sectionID)
	require.NoError(t, err)
	require.True(t, submit.Correct)

	advance, err := engine.Advance(userID, sectionID)
	require.NoError(t, err)
	return advance
}

func TestAttemptEngine_PerfectRunAwardsMaxXP(t *testing.T) {
	// Arrange
	engine, cache, drafts, users, results := newTestEngine(testQuestions(5))

	snap, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	require.Equal(t, 5, snap.TotalQuestions)
	require.Equal(t, StatusInProgress, snap.Status)

	// Act: четыре правильных ответа с переходом
	for i := 0; i < 4; i++ {
		advance := answerCurrentCorrectly(t, engine, 42, 1)
		require.False(t, advance.Completed)
		assert.Equal(t, i+1, advance.State.CurrentPosition)
	}

	advance := answerCurrentCorrectly(t, engine, 42, 1)

	// Assert: идеальная попытка
	require.True(t, advance.Completed)
	completion := advance.Completion
	require.NotNil(t, completion)
	assert.Equal(t, 100, completion.Summary.Percentage)
	assert.True(t, completion.Summary.Passed)
	assert.Equal(t, 50, completion.Summary.XPAwarded)
	assert.Equal(t, 5, completion.CorrectAnswers)
	assert.Equal(t, 5, completion.TotalQuestions)
	assert.Equal(t, uint(7), completion.ModuleID)

	// XP начислен и подтверждён
	assert.True(t, completion.Recorded)
	assert.Equal(t, int64(50), completion.TotalXP)
	assert.Equal(t, 1, completion.Level)
	assert.Equal(t, []int{50}, users.awards)

	// Результат записан
	require.Len(t, results.saved, 1)
	saved := results.saved[0]
	assert.Equal(t, completion.AttemptID, saved.AttemptID)
	assert.Equal(t, "student", saved.Username)
	assert.True(t, saved.Passed)

	// Обе копии черновика очищены, попытка снята с учёта
	assert.Equal(t, 0, cache.len())
	assert.Equal(t, 0, drafts.len())
	_, err = engine.Get(42, 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestAttemptEngine_FailedRunStillRecordsResult(t *testing.T) {
	// Arrange: 5 вопросов, все ответы неправильные
	engine, _, _, users, results := newTestEngine(testQuestions(5))

	_, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)

	var completion *CompletionResult
	for i := 0; i < 5; i++ {
		snap, err := engine.Get(42, 1)
		require.NoError(t, err)
		current := snap.Questions[snap.CurrentPosition]

		// Любой вариант, кроме правильного
		wrong := current.Options[(current.CorrectIndex+1)%len(current.Options)]
		_, err = engine.SelectAnswer(42, 1, wrong)
		require.NoError(t, err)

		submit, err := engine.SubmitAnswer(42, 1)
		require.NoError(t, err)
		assert.False(t, submit.Correct)

		advance, err := engine.Advance(42, 1)
		require.NoError(t, err)
		if advance.Completed {
			completion = advance.Completion
		}
	}

	// Assert: провал фиксируется так же, как успех
	require.NotNil(t, completion)
	assert.Equal(t, 0, completion.Summary.Percentage)
	assert.False(t, completion.Summary.Passed)
	assert.Equal(t, 0, completion.Summary.XPAwarded)
	assert.Equal(t, []int{0}, users.awards, "Начисление вызывается и при нуле XP: счётчик попыток должен вырасти")
	require.Len(t, results.saved, 1)
	assert.False(t, results.saved[0].Passed)
}

func TestAttemptEngine_SubmitRevealsCorrectAnswer(t *testing.T) {
	// Arrange
	engine, _, _, _, _ := newTestEngine(testQuestions(3))
	snap, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	current := snap.Questions[snap.CurrentPosition]

	// Act: неправильный ответ
	wrong := current.Options[(current.CorrectIndex+1)%len(current.Options)]
	_, err = engine.SelectAnswer(42, 1, wrong)
	require.NoError(t, err)
	submit, err := engine.SubmitAnswer(42, 1)
	require.NoError(t, err)

	// Assert: раскрыты правильный вариант и объяснение
	assert.False(t, submit.Correct)
	assert.Equal(t, current.CorrectIndex, submit.CorrectIndex)
	assert.Equal(t, current.Question.CorrectAnswer, submit.CorrectAnswer)
	assert.Equal(t, current.Question.Explanation, submit.Explanation)
	assert.Equal(t, 0, submit.CorrectCount)
}

func TestAttemptEngine_ResumeAfterRestart(t *testing.T) {
	// Arrange: движок №1, один правильный ответ, переход на второй вопрос
	questions := testQuestions(5)
	engine1, cache, drafts, users, results := newTestEngine(questions)

	_, err := engine1.StartAttempt(42, 1)
	require.NoError(t, err)
	advance := answerCurrentCorrectly(t, engine1, 42, 1)
	require.False(t, advance.Completed)

	// Исходный индекс вопроса, на котором остановились
	resumeOriginal := advance.State.Questions[advance.State.CurrentPosition].OriginalIndex
	engine1.Coordinator().Flush()

	// Act: "перезапуск" — новый движок над теми же хранилищами
	engine2 := NewAttemptEngine(DefaultConfig(), &Dependencies{
		SectionRepo:  &fakeSectionRepo{section: &entity.Section{ID: 1, ModuleID: 7, Title: "Фишинг"}},
		QuestionRepo: &fakeQuestionRepo{questions: questions},
		UserRepo:     users,
		ResultRepo:   results,
		DraftRepo:    drafts,
		CacheRepo:    cache,
	})
	snap, err := engine2.StartAttempt(42, 1)

	// Assert: ответ и счёт восстановлены при новой рандомизации
	require.NoError(t, err)
	assert.Len(t, snap.Answers, 1)
	assert.Equal(t, 1, snap.CorrectCount, "Счёт пересчитан из восстановленных ответов")
	assert.Equal(t, resumeOriginal, snap.Questions[snap.CurrentPosition].OriginalIndex,
		"Продолжение с вопроса, на котором остановились")
	assert.Equal(t, StatusInProgress, snap.Status)
}

func TestAttemptEngine_ResumeFromLocalOnlyDraft(t *testing.T) {
	// Arrange: удалённое хранилище недоступно всё время
	questions := testQuestions(4)
	engine, cache, drafts, users, results := newTestEngine(questions)
	drafts.upsertErr = errors.New("remote store down")
	drafts.getErr = errors.New("remote store down")

	_, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	advance := answerCurrentCorrectly(t, engine, 42, 1)
	require.False(t, advance.Completed)
	engine.Coordinator().Flush()

	// Act: перезапуск — черновик есть только в локальном кеше
	engine2 := NewAttemptEngine(DefaultConfig(), &Dependencies{
		SectionRepo:  &fakeSectionRepo{section: &entity.Section{ID: 1, ModuleID: 7}},
		QuestionRepo: &fakeQuestionRepo{questions: questions},
		UserRepo:     users,
		ResultRepo:   results,
		DraftRepo:    drafts,
		CacheRepo:    cache,
	})
	snap, err := engine2.StartAttempt(42, 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CorrectCount)
	assert.Len(t, snap.Answers, 1)
}

func TestAttemptEngine_ResumedAnswerOnCurrentPositionIsSubmitted(t *testing.T) {
	// Arrange: ответ выбран и отправлен, но перехода не было —
	// CurrentIndex черновика указывает на уже отвеченный вопрос
	questions := testQuestions(3)
	engine, cache, drafts, users, results := newTestEngine(questions)

	snap, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	current := snap.Questions[snap.CurrentPosition]
	_, err = engine.SelectAnswer(42, 1, current.Options[current.CorrectIndex])
	require.NoError(t, err)
	_, err = engine.SubmitAnswer(42, 1)
	require.NoError(t, err)
	engine.Coordinator().Flush()

	// Act: перезапуск
	engine2 := NewAttemptEngine(DefaultConfig(), &Dependencies{
		SectionRepo:  &fakeSectionRepo{section: &entity.Section{ID: 1, ModuleID: 7}},
		QuestionRepo: &fakeQuestionRepo{questions: questions},
		UserRepo:     users,
		ResultRepo:   results,
		DraftRepo:    drafts,
		CacheRepo:    cache,
	})
	restored, err := engine2.StartAttempt(42, 1)
	require.NoError(t, err)

	// Assert: позиция считается отправленной, её правильность уже в счёте —
	// повторная отправка отклоняется, двойного учёта нет
	assert.Equal(t, StatusAnswerSubmitted, restored.Status)
	assert.Equal(t, 1, restored.CorrectCount)
	_, err = engine2.SubmitAnswer(42, 1)
	assert.ErrorIs(t, err, ErrAnswerAlreadySubmitted)

	// Переход работает сразу. Позиция продолжения в новой рандомизации
	// может оказаться и последней — тогда переход завершает попытку.
	advance, err := engine2.Advance(42, 1)
	require.NoError(t, err)
	if advance.Completed {
		assert.Equal(t, 1, advance.Completion.CorrectAnswers)
	} else {
		assert.Equal(t, 1, advance.State.CorrectCount)
	}
}

func TestAttemptEngine_ResumedAnswersNotDoubleCounted(t *testing.T) {
	// Arrange: черновик с правильными ответами на ВСЕ три вопроса и
	// продолжением с первого. В новой рандомизации часть восстановленных
	// ответов оказывается ПОСЛЕ позиции продолжения — их придётся
	// отправить повторно, но их правильность уже учтена в счёте.
	// Проверяем на разных перестановках: итог обязан быть ровно 3/3,
	// а не 100%+ из-за двойного учёта.
	questions := testQuestions(3)

	for seed := int64(0); seed < 10; seed++ {
		engine, _, drafts, users, _ := newTestEngine(questions)
		engine.SetShuffler(NewSeededShuffler(seed))
		require.NoError(t, drafts.Upsert(&entity.QuizDraft{
			UserID:       42,
			SectionID:    1,
			Answers:      entity.AnswerMap{0: "Correct-0", 1: "Correct-1", 2: "Correct-2"},
			CurrentIndex: 0,
			SavedAt:      time.Now(),
		}))

		snap, err := engine.StartAttempt(42, 1)
		require.NoError(t, err)
		require.Equal(t, 3, snap.CorrectCount, "seed=%d: счёт пересчитан из черновика", seed)
		require.Equal(t, StatusAnswerSubmitted, snap.Status, "seed=%d", seed)

		// Act: проходим до конца — каждый восстановленный ответ предвыбран,
		// остаётся отправить его и перейти дальше
		var completion *CompletionResult
		for completion == nil {
			advance, err := engine.Advance(42, 1)
			require.NoError(t, err, "seed=%d", seed)
			if advance.Completed {
				completion = advance.Completion
				break
			}
			_, err = engine.SubmitAnswer(42, 1)
			require.NoError(t, err, "seed=%d", seed)
		}

		// Assert: счёт не превышает числа вопросов, XP — максимума
		assert.Equal(t, 3, completion.CorrectAnswers, "seed=%d", seed)
		assert.Equal(t, 3, completion.TotalQuestions, "seed=%d", seed)
		assert.Equal(t, 100, completion.Summary.Percentage, "seed=%d", seed)
		assert.Equal(t, 50, completion.Summary.XPAwarded, "seed=%d", seed)
		assert.Equal(t, []int{50}, users.awards, "seed=%d", seed)
	}
}

func TestAttemptEngine_RetryDiscardsDraftAndProgress(t *testing.T) {
	// Arrange: попытка с одним ответом
	engine, cache, drafts, _, _ := newTestEngine(testQuestions(5))

	_, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	advance := answerCurrentCorrectly(t, engine, 42, 1)
	require.False(t, advance.Completed)
	engine.Coordinator().Flush()
	require.Greater(t, cache.len(), 0)

	// Act
	snap, err := engine.Retry(42, 1)

	// Assert: прогресс и черновики сброшены
	require.NoError(t, err)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 0, snap.CorrectCount)
	assert.Equal(t, 0, snap.CurrentPosition)
	assert.Equal(t, 0, cache.len())
	assert.Equal(t, 0, drafts.len())
}

func TestAttemptEngine_RestartsProduceDistinctOrders(t *testing.T) {
	// Статистическая проверка: повторные старты дают разные порядки
	// вопросов. Сравниваем множество порядков, а не одну пару.
	engine, _, _, _, _ := newTestEngine(testQuestions(8))

	orders := make(map[string]bool)
	for i := 0; i < 30; i++ {
		snap, err := engine.Retry(42, 1)
		require.NoError(t, err)

		key := ""
		for _, q := range snap.Questions {
			key += fmt.Sprintf("%d,", q.OriginalIndex)
		}
		orders[key] = true
	}

	assert.Greater(t, len(orders), 1, "30 стартов по 8 вопросов должны дать больше одного порядка")
}

func TestAttemptEngine_ResultSaveFailureFlagsUnrecorded(t *testing.T) {
	// Arrange: запись результата падает
	engine, _, _, users, results := newTestEngine(testQuestions(1))
	results.saveErr = errors.New("insert failed")

	_, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)

	// Act
	advance := answerCurrentCorrectly(t, engine, 42, 1)

	// Assert: итог показан из локального счёта, сбой виден по флагу
	require.True(t, advance.Completed)
	completion := advance.Completion
	assert.Equal(t, 100, completion.Summary.Percentage)
	assert.True(t, completion.Summary.Passed)
	assert.False(t, completion.Recorded)
	// XP при этом успел начислиться
	assert.Equal(t, []int{50}, users.awards)
}

func TestAttemptEngine_XPFailureFlagsUnrecorded(t *testing.T) {
	// Arrange: начисление XP падает
	engine, _, _, users, results := newTestEngine(testQuestions(1))
	users.xpErr = errors.New("update failed")

	_, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)

	// Act
	advance := answerCurrentCorrectly(t, engine, 42, 1)

	// Assert: результат всё равно записан, но Recorded=false и итоговый
	// XP/уровень не подтверждены
	require.True(t, advance.Completed)
	completion := advance.Completion
	assert.False(t, completion.Recorded)
	assert.Equal(t, int64(0), completion.TotalXP)
	require.Len(t, results.saved, 1)
	assert.Equal(t, 50, results.saved[0].XPAwarded)
}

func TestAttemptEngine_StartWithoutQuestions(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(nil)

	snap, err := engine.StartAttempt(42, 1)

	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Nil(t, snap)
}

func TestAttemptEngine_OperationsWithoutActiveAttempt(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(testQuestions(3))

	_, err := engine.Get(42, 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)

	_, err = engine.SelectAnswer(42, 1, "x")
	assert.ErrorIs(t, err, ErrNoActiveAttempt)

	_, err = engine.SubmitAnswer(42, 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)

	_, err = engine.Advance(42, 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestAttemptEngine_SuspendSavesLocallyAndEvicts(t *testing.T) {
	// Arrange: попытка с выбранным, но не отправленным ответом
	engine, cache, drafts, _, _ := newTestEngine(testQuestions(3))

	snap, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	current := snap.Questions[snap.CurrentPosition]
	_, err = engine.SelectAnswer(42, 1, current.Options[0])
	require.NoError(t, err)
	engine.Coordinator().Flush()
	remoteBefore := drafts.len()

	// Act
	engine.Suspend(42, 1)

	// Assert: попытка выгружена, локальная копия есть, удалённых записей не добавилось
	_, err = engine.Get(42, 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
	assert.Greater(t, cache.len(), 0)
	assert.Equal(t, remoteBefore, drafts.len())

	// Повторный Suspend — no-op
	engine.Suspend(42, 1)
}

func TestAttemptEngine_FlushAllPersistsLiveAttempts(t *testing.T) {
	// Arrange: живая попытка с выбранным ответом
	engine, cache, _, _, _ := newTestEngine(testQuestions(3))

	snap, err := engine.StartAttempt(42, 1)
	require.NoError(t, err)
	current := snap.Questions[snap.CurrentPosition]
	_, err = engine.SelectAnswer(42, 1, current.Options[0])
	require.NoError(t, err)

	// Act: остановка сервера
	engine.FlushAll()

	// Assert: черновик сохранён, попытка остаётся живой (в отличие от Suspend)
	assert.Greater(t, cache.len(), 0)
	_, err = engine.Get(42, 1)
	assert.NoError(t, err)
}
