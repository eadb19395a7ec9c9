package attemptengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeDraft_RestoresAnswersAgainstNewRandomization(t *testing.T) {
	// Черновик с ответами по исходным индексам {0: правильный, 2: неправильный}
	// должен дать счёт 1 при ЛЮБОМ новом порядке предъявления
	record := &DraftRecord{
		Answers: map[int]string{
			0: "Correct-0",
			2: "Wrong-2-a",
		},
		CurrentIndex: 2,
		SavedAt:      time.Now(),
	}

	for seed := int64(0); seed < 25; seed++ {
		questions := randomize(testQuestions(5), NewSeededShuffler(seed))

		outcome := mergeDraft(questions, record)

		assert.Equal(t, 1, outcome.correctCount,
			"seed=%d: счёт пересчитывается по тексту правильного ответа, независимо от порядка", seed)
		assert.Len(t, outcome.answers, 2)
		assert.Len(t, outcome.scored, 2,
			"seed=%d: все восстановленные позиции помечены как уже оценённые", seed)

		// Ответы привязаны к позициям вопросов с теми же исходными индексами
		assert.Equal(t, "Wrong-2-a", outcome.answers[outcome.position],
			"seed=%d: позиция продолжения — вопрос с исходным индексом 2", seed)
		assert.Equal(t, 2, questions[outcome.position].OriginalIndex, "seed=%d", seed)
		assert.True(t, outcome.currentAnswered, "seed=%d", seed)
	}
}

func TestMergeDraft_ScoreNeverTrustsStoredValue(t *testing.T) {
	// В записи нет сохранённого счёта вовсе: он всегда пересчитывается.
	// Ответ, переставший совпадать с правильным текстом, не учитывается.
	record := &DraftRecord{
		Answers:      map[int]string{0: "устаревший ответ"},
		CurrentIndex: 0,
	}

	questions := randomize(testQuestions(3), NewSeededShuffler(1))
	outcome := mergeDraft(questions, record)

	assert.Equal(t, 0, outcome.correctCount)
	assert.Len(t, outcome.answers, 1, "Сам ответ при этом восстанавливается")
}

func TestMergeDraft_UnknownCurrentIndexFallsBackToZero(t *testing.T) {
	// Исходный индекс вне новой рандомизации (вопрос удалён) —
	// откат на позицию 0, а не ошибка
	record := &DraftRecord{
		Answers:      map[int]string{1: "Correct-1"},
		CurrentIndex: 99,
	}

	questions := randomize(testQuestions(4), NewSeededShuffler(2))
	outcome := mergeDraft(questions, record)

	assert.Equal(t, 0, outcome.position)
	assert.Equal(t, 1, outcome.correctCount)
}

func TestMergeDraft_StaleOriginalIndexIgnored(t *testing.T) {
	// Ответ на несуществующий исходный индекс просто пропускается
	record := &DraftRecord{
		Answers:      map[int]string{7: "Correct-7"},
		CurrentIndex: 0,
	}

	questions := randomize(testQuestions(3), NewSeededShuffler(3))
	outcome := mergeDraft(questions, record)

	assert.Empty(t, outcome.answers)
	assert.Empty(t, outcome.scored)
	assert.Equal(t, 0, outcome.correctCount)
	assert.False(t, outcome.currentAnswered)
}

func TestMergeDraft_EmptyDraft(t *testing.T) {
	questions := randomize(testQuestions(3), NewSeededShuffler(4))

	outcome := mergeDraft(questions, &DraftRecord{})

	assert.Empty(t, outcome.answers)
	assert.Equal(t, 0, outcome.position)
	assert.Equal(t, 0, outcome.correctCount)
}
