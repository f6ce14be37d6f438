package middleware

import (
	"net/http"

	"location-reminder/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORSMiddleware 許可したオリジンにだけCORSヘッダーを返すmiddleware
// allowedOriginsに "*" が含まれる場合はすべてのオリジンを許可する
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		_, ok := allowed[origin]
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && ok:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			if !allowAll && !ok {
				logger.WithField("origin", origin).Warn("CORS: 許可されていないオリジンからのプリフライト")
				c.AbortWithStatus(http.StatusForbidden)
				return
			}

			logger.WithFields(logrus.Fields{
				"origin": origin,
				"route":  c.FullPath(),
			}).Debug("CORSプリフライトを処理しました")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
