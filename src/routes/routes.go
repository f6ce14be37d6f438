package routes

import (
	"context"
	"net/http"
	"time"

	"location-reminder/src/interface/handler"
	"location-reminder/src/logger"
	"location-reminder/src/middleware"
	"location-reminder/src/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether the backing stores are reachable
type HealthCheck func(ctx context.Context) error

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, reminderHandler *handler.ReminderHandler, jwtService service.JWTService, limiter *middleware.RateLimiter, health HealthCheck, allowedOrigins []string) {
	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"uri":    c.Request.RequestURI,
		}).Warn("405: サポートされていないメソッド")
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.RateLimitMiddleware(limiter))

	// 認証が不要なパブリックルート
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Location Reminder API",
			"version": "1.0",
			"service": "location-reminder",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		status, code := "OK", http.StatusOK
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				logger.Log.WithError(err).Error("ヘルスチェックに失敗")
				status, code = "UNAVAILABLE", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// 認証が必要なリマインダーAPIルート
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtService))

	reminders := api.Group("/reminders")
	{
		reminders.GET("", reminderHandler.ListReminders)                // GET /api/reminders
		reminders.POST("", reminderHandler.SaveReminder)                // POST /api/reminders
		reminders.DELETE("", reminderHandler.DeleteAllReminders)        // DELETE /api/reminders
		reminders.GET("/triggered", reminderHandler.TriggeredReminders) // GET /api/reminders/triggered
		reminders.GET("/:id", reminderHandler.GetReminder)              // GET /api/reminders/:id
	}
}
