package repository

import (
	"time"
)

// CacheRepository определяет методы локального долговечного кеша.
// Движок попыток не знает о конкретной технологии хранения: ему важна
// только долговечность значений между перезапусками сессии.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	Exists(key string) (bool, error)

	// SetJSON сохраняет структуру в кеше в виде JSON
	SetJSON(key string, value interface{}, expiration time.Duration) error
	// GetJSON читает структуру из кеша; ErrNotFound при отсутствии ключа
	GetJSON(key string, dest interface{}) error
}
