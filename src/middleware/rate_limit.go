package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"location-reminder/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter クライアントIPごとの固定ウィンドウ方式のレート制限
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*rateWindow
	now     func() time.Time
}

// NewRateLimiter レート制限を作成 (limitが0以下の場合は制限しない)
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// Allow リクエストを許可するか判定し、拒否した場合は再試行までの時間を返す
func (l *RateLimiter) Allow(clientIP string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.start) >= l.window {
		l.evict(now)
		l.clients[clientIP] = &rateWindow{start: now, count: 1}
		return true, 0
	}

	if w.count >= l.limit {
		return false, w.start.Add(l.window).Sub(now)
	}
	w.count++
	return true, 0
}

// evict 期限切れのウィンドウを削除 (mu保持中に呼ぶこと)
func (l *RateLimiter) evict(now time.Time) {
	for ip, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, ip)
		}
	}
}

// RateLimitMiddleware レート制限用のmiddleware
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := limiter.Allow(clientIP)
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			logger.WithFields(logrus.Fields{
				"client_ip": clientIP,
				"method":    c.Request.Method,
				"uri":       c.Request.RequestURI,
			}).Warn("レート制限に達しました")
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"retry_after": seconds,
			})
			return
		}

		c.Next()
	}
}
