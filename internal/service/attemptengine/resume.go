package attemptengine

// resumeOutcome — результат сопоставления черновика со свежей рандомизацией
type resumeOutcome struct {
	// answers — восстановленные ответы по рандомизированным позициям
	answers map[int]string
	// scored — позиции, чья правильность уже учтена в correctCount.
	// Повторная отправка такой позиции счёт не наращивает.
	scored map[int]bool
	// position — рандомизированная позиция, с которой продолжается попытка
	position int
	// correctCount — пересчитанный счётчик правильных ответов
	correctCount int
	// currentAnswered — есть ли восстановленный ответ на позиции position
	currentAnswered bool
}

// mergeDraft сопоставляет сохранённый черновик с новой рандомизацией.
// Для каждого вопроса ответ ищется по его исходному индексу; счёт
// ПЕРЕСЧИТЫВАЕТСЯ сравнением с текстом правильного ответа — правильность
// инвариантна к перемешиванию, текст правильного варианта не меняется.
// Сохранённому числу никогда не доверяем: иначе повторная рандомизация
// могла бы рассинхронизировать счёт с ответами.
func mergeDraft(questions []RandomizedQuestion, record *DraftRecord) resumeOutcome {
	outcome := resumeOutcome{
		answers: make(map[int]string, len(questions)),
		scored:  make(map[int]bool, len(questions)),
	}
	if record.IsEmpty() {
		return outcome
	}

	for position, rq := range questions {
		answer, ok := record.Answers[rq.OriginalIndex]
		if !ok {
			continue
		}
		outcome.answers[position] = answer
		outcome.scored[position] = true
		if answer == rq.Question.CorrectAnswer {
			outcome.correctCount++
		}
	}

	// Позиция продолжения: вопрос, чей исходный индекс совпадает с
	// сохранённым. Невалидный индекс (вопрос удалён, контент изменился)
	// откатывает на позицию 0, а не в ошибку.
	for position, rq := range questions {
		if rq.OriginalIndex == record.CurrentIndex {
			outcome.position = position
			break
		}
	}

	_, outcome.currentAnswered = outcome.answers[outcome.position]
	return outcome
}
