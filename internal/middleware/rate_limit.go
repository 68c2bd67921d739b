package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter ограничивает частоту запросов для каждого пользователя
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewRateLimiter создает новый rate limiter с лимитом запросов в минуту
func NewRateLimiter(perMinute, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		logger:   logger,
	}
}

// Allow сообщает, может ли пользователь выполнить запрос сейчас
func (l *RateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	limiter, exists := l.limiters[userID]
	if !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Cleanup сбрасывает накопленные лимитеры. Вызывается периодически,
// чтобы карта не росла бесконечно на неактивных пользователях.
func (l *RateLimiter) Cleanup() {
	l.mu.Lock()
	count := len(l.limiters)
	l.limiters = make(map[int64]*rate.Limiter)
	l.mu.Unlock()

	if count > 0 {
		l.logger.Debug("Rate limiter cleanup", zap.Int("dropped", count))
	}
}
