package attemptengine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/domain/repository"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// DraftRecord — сериализуемый снимок незавершённой попытки.
// Ответы ключуются ИСХОДНЫМ индексом вопроса, чтобы черновик можно
// было сопоставить с любой будущей рандомизацией.
type DraftRecord struct {
	Answers      map[int]string `json:"answers"`
	CurrentIndex int            `json:"current_index"`
	SavedAt      time.Time      `json:"saved_at"`
}

// IsEmpty возвращает true, если в черновике нет ни одного ответа
func (r *DraftRecord) IsEmpty() bool {
	return r == nil || len(r.Answers) == 0
}

// draftID идентифицирует черновик одной пары пользователь+секция
type draftID struct {
	userID    uint
	sectionID uint
}

// DraftCoordinator управляет двойной записью черновиков: синхронно в
// локальный долговечный кеш и асинхронно (best-effort) в удалённое
// хранилище. Локальная копия авторитетна; удалённая нужна для
// продолжения с другого устройства и побеждает только когда она свежее.
//
// Фоновые записи нумеруются по каждому черновику отдельно: устаревший
// снимок, чья очередь дошла позже свежего, просто пропускает запись —
// поэтому поздний Upsert не может затереть более новые ответы и не
// может воскресить удалённый черновик.
type DraftCoordinator struct {
	config    *Config
	cacheRepo repository.CacheRepository
	draftRepo repository.DraftRepository

	// mu защищает seq и locks; сами записи его не держат
	mu    sync.Mutex
	seq   map[draftID]uint64
	locks map[draftID]*sync.Mutex

	// remoteWrites отслеживает незавершённые фоновые записи,
	// чтобы Flush при остановке мог их дождаться
	remoteWrites sync.WaitGroup
}

// NewDraftCoordinator создает новый координатор черновиков
func NewDraftCoordinator(config *Config, cacheRepo repository.CacheRepository, draftRepo repository.DraftRepository) *DraftCoordinator {
	return &DraftCoordinator{
		config:    config,
		cacheRepo: cacheRepo,
		draftRepo: draftRepo,
		seq:       make(map[draftID]uint64),
		locks:     make(map[draftID]*sync.Mutex),
	}
}

// draftKey строит ключ локального кеша. Ключи скоупятся на пользователя
// и секцию, чтобы черновики разных тестов не пересекались.
func (c *DraftCoordinator) draftKey(userID, sectionID uint) string {
	return fmt.Sprintf("%s:user:%d:section:%d", c.config.DraftKeyPrefix, userID, sectionID)
}

// nextSeq выдаёт следующий номер снимка черновика. Все ранее выданные
// номера с этого момента устаревают.
func (c *DraftCoordinator) nextSeq(id draftID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq[id]++
	return c.seq[id]
}

func (c *DraftCoordinator) currentSeq(id draftID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq[id]
}

// keyLock возвращает мьютекс конкретного черновика: записи и удаления
// одного черновика не пересекаются, разные черновики друг друга не ждут
func (c *DraftCoordinator) keyLock(id draftID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	return lock
}

// Save сохраняет черновик по схеме fire-and-forget: сначала синхронная
// запись в локальный кеш, затем одна асинхронная попытка записи в
// удалённое хранилище. Ошибка удалённой записи проглатывается и
// логируется — она никогда не блокирует пользователя и не ретраится.
func (c *DraftCoordinator) Save(userID, sectionID uint, record *DraftRecord) {
	c.saveLocal(userID, sectionID, record)

	id := draftID{userID, sectionID}
	seq := c.nextSeq(id)

	c.remoteWrites.Add(1)
	go func() {
		defer c.remoteWrites.Done()

		lock := c.keyLock(id)
		lock.Lock()
		defer lock.Unlock()

		// Пока ждали очередь, появился более свежий снимок или черновик
		// был удалён — эта запись устарела и пропускается
		if c.currentSeq(id) != seq {
			return
		}
		c.saveRemote(userID, sectionID, record)
	}()
}

// SaveLocal выполняет только локальную страховочную запись — аналог
// сохранения при сворачивании/закрытии вкладки: без похода в удалённое
// хранилище, чтобы между явными точками сохранения ничего не терялось.
func (c *DraftCoordinator) SaveLocal(userID, sectionID uint, record *DraftRecord) {
	c.saveLocal(userID, sectionID, record)
}

func (c *DraftCoordinator) saveLocal(userID, sectionID uint, record *DraftRecord) {
	key := c.draftKey(userID, sectionID)
	if err := c.cacheRepo.SetJSON(key, record, c.config.DraftTTL); err != nil {
		// Локальный кеш считается всегда доступным; сбой здесь только логируем
		log.Printf("[DraftCoordinator] Ошибка локальной записи черновика %s: %v", key, err)
	}
}

func (c *DraftCoordinator) saveRemote(userID, sectionID uint, record *DraftRecord) {
	draft := &entity.QuizDraft{
		UserID:       userID,
		SectionID:    sectionID,
		Answers:      entity.AnswerMap(record.Answers),
		CurrentIndex: record.CurrentIndex,
		SavedAt:      record.SavedAt,
	}
	if err := c.draftRepo.Upsert(draft); err != nil {
		log.Printf("[DraftCoordinator] Удалённая запись черновика user=%d section=%d не удалась (игнорируется): %v",
			userID, sectionID, err)
	}
}

// Load загружает черновик из обоих хранилищ и возвращает более свежий
// по SavedAt. Локальная копия авторитетна: удалённая побеждает только
// когда она СТРОГО новее (продолжение с другого устройства). Возвращает
// (nil, false), если черновика нет нигде или он пуст.
func (c *DraftCoordinator) Load(userID, sectionID uint) (*DraftRecord, bool) {
	local, localOK := c.loadLocal(userID, sectionID)
	remote, remoteOK := c.loadRemote(userID, sectionID)

	switch {
	case localOK && remoteOK:
		if remote.SavedAt.After(local.SavedAt) {
			return remote, true
		}
		return local, true
	case remoteOK:
		return remote, true
	case localOK:
		return local, true
	default:
		return nil, false
	}
}

func (c *DraftCoordinator) loadRemote(userID, sectionID uint) (*DraftRecord, bool) {
	draft, err := c.draftRepo.Get(userID, sectionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			// Сбой удалённого хранилища восстанавливается молча через локальный кеш
			log.Printf("[DraftCoordinator] Удалённое чтение черновика user=%d section=%d не удалось, fallback на локальный кеш: %v",
				userID, sectionID, err)
		}
		return nil, false
	}
	if draft.IsEmpty() {
		return nil, false
	}

	return &DraftRecord{
		Answers:      map[int]string(draft.Answers),
		CurrentIndex: draft.CurrentIndex,
		SavedAt:      draft.SavedAt,
	}, true
}

func (c *DraftCoordinator) loadLocal(userID, sectionID uint) (*DraftRecord, bool) {
	key := c.draftKey(userID, sectionID)

	var record DraftRecord
	if err := c.cacheRepo.GetJSON(key, &record); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[DraftCoordinator] Ошибка чтения локального черновика %s: %v", key, err)
		}
		return nil, false
	}
	if record.IsEmpty() {
		// Запись без ответов считается отсутствующей
		return nil, false
	}
	return &record, true
}

// Clear удаляет обе копии черновика. Сбой удалённого удаления
// логируется и игнорируется: локальное удаление выполняется в любом случае.
// Отложенные фоновые записи ЭТОГО черновика устаревают и пропускаются,
// записи других черновиков не ждутся.
func (c *DraftCoordinator) Clear(userID, sectionID uint) {
	id := draftID{userID, sectionID}
	c.nextSeq(id)

	lock := c.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	key := c.draftKey(userID, sectionID)
	if err := c.cacheRepo.Delete(key); err != nil {
		log.Printf("[DraftCoordinator] Ошибка удаления локального черновика %s: %v", key, err)
	}

	if err := c.draftRepo.Delete(userID, sectionID); err != nil {
		log.Printf("[DraftCoordinator] Удалённое удаление черновика user=%d section=%d не удалось (игнорируется): %v",
			userID, sectionID, err)
	}
}

// Flush дожидается завершения всех фоновых удалённых записей.
// Вызывается при graceful shutdown и из тестов.
func (c *DraftCoordinator) Flush() {
	c.remoteWrites.Wait()
}
