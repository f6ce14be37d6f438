package middleware

import (
	"time"

	"location-reminder/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware リクエストごとに構造化ログを出力するmiddleware
// ルートのテンプレートと、対象のリマインダーIDや位置情報があればそれも記録する
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"path":        c.Request.URL.Path,
			"client_ip":   c.ClientIP(),
			"status_code": statusCode,
			"latency_ms":  time.Since(start).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			fields["reminder_id"] = id
		}
		if lat, ok := c.GetQuery("lat"); ok {
			fields["lat"] = lat
		}
		if lng, ok := c.GetQuery("lng"); ok {
			fields["lng"] = lng
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case statusCode >= 500:
			entry.Error("リクエスト完了 - サーバーエラー")
		case statusCode >= 400:
			entry.Warn("リクエスト完了 - クライアントエラー")
		default:
			entry.Info("リクエスト完了")
		}
	}
}
