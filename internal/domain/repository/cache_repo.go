package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем и TTL-счетчиками.
// Внешнее хранилище для счетчиков rate limiting и кеша счетчиков попыток:
// не держит process-wide map и переживает горизонтальное масштабирование.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	// Get возвращает значение ключа; отсутствие ключа — ErrNotFound
	Get(key string) (string, error)
	Delete(key string) error
	// IncrementWithTTL атомарно увеличивает счетчик; при первом инкременте
	// устанавливает TTL. Возвращает новое значение счетчика.
	IncrementWithTTL(key string, ttl time.Duration) (int64, error)
}
