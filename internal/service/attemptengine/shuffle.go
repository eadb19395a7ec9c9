package attemptengine

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler выдаёт случайные перестановки для попыток.
// Используется дважды: для порядка вопросов и для порядка вариантов
// каждого вопроса. Источник случайности инжектируется, чтобы тесты
// могли получать детерминированные перестановки через seed.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler создает Shuffler со случайным seed
func NewShuffler() *Shuffler {
	return NewSeededShuffler(time.Now().UnixNano())
}

// NewSeededShuffler создает Shuffler с фиксированным seed (для тестов)
func NewSeededShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

// Strings возвращает перемешанную копию списка строк.
// Пустые и одноэлементные списки возвращаются без изменений.
func (s *Shuffler) Strings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	fisherYates(s.rnd, len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Perm возвращает случайную перестановку индексов [0, n)
func (s *Shuffler) Perm(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fisherYates(s.rnd, n, func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// fisherYates выполняет несмещённое перемешивание: для позиции i от
// последней вниз до 1 выбирается равномерный j в [0, i] и элементы
// i и j меняются местами. Каждая перестановка равновероятна.
func fisherYates(rnd *rand.Rand, n int, swap func(i, j int)) {
	for i := n - 1; i >= 1; i-- {
		j := rnd.Intn(i + 1)
		swap(i, j)
	}
}
