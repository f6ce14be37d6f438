package middleware

import "time"

// SetClock テスト用に現在時刻の取得関数を差し替える
func SetClock(l *RateLimiter, now func() time.Time) {
	l.now = now
}
