package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearning-api/internal/domain/repository"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix — префикс для ключей счетчиков
	KeyPrefix string
}

// DefaultSubmitRateLimitConfig — лимит отправки попыток: защита от
// скриптового перебора вариантов ответов
func DefaultSubmitRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 10,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:attempt",
	}
}

// DefaultPublicRateLimitConfig — общий лимит по IP для всего API:
// широкий потолок против скрейпинга публичных списков тестов
func DefaultPublicRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 120,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:ip",
	}
}

// RateLimiter создаёт middleware для rate limiting поверх внешнего
// TTL-хранилища счетчиков. Счетчики живут вне процесса, поэтому лимит
// работает и при нескольких репликах API.
type RateLimiter struct {
	store repository.CacheRepository
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(store repository.CacheRepository) *RateLimiter {
	return &RateLimiter{store: store}
}

// LimitByUser ограничивает запросы аутентифицированного пользователя на endpoint.
// Должен применяться после RequireAuth. Ключ: prefix + user_id + path.
func (rl *RateLimiter) LimitByUser(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			// Без аутентификации откатываемся на лимит по IP
			rl.limitByKey(c, cfg, fmt.Sprintf("%s:ip:%s:%s", cfg.KeyPrefix, c.ClientIP(), c.FullPath()))
			return
		}
		rl.limitByKey(c, cfg, fmt.Sprintf("%s:%d:%s", cfg.KeyPrefix, userID.(uint), c.FullPath()))
	}
}

// LimitByIP ограничивает количество запросов по IP клиента
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.limitByKey(c, cfg, fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP()))
	}
}

func (rl *RateLimiter) limitByKey(c *gin.Context, cfg RateLimitConfig, key string) {
	count, err := rl.store.IncrementWithTTL(key, cfg.Window)
	if err != nil {
		// При ошибке хранилища пропускаем запрос (fail-open), но логируем
		log.Printf("[RateLimiter] Store error for key %s: %v. Allowing request (fail-open).", key, err)
		c.Next()
		return
	}

	remaining := cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := int(cfg.Window.Seconds())

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

	if int(count) > cfg.MaxRequests {
		log.Printf("[RateLimiter] Rate limit exceeded for key=%s. Count=%d, Limit=%d", key, count, cfg.MaxRequests)

		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Too many requests. Please try again later.",
			"error_type":  "rate_limited",
			"retry_after": retryAfter,
		})
		return
	}

	c.Next()
}
