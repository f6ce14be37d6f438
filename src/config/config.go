package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config アプリケーション設定
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Geofence GeofenceConfig
	S3       S3Config
	Snapshot SnapshotConfig
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	// クライアントIPごとのリクエスト上限 (0で無効)
	RateLimit       int
	RateLimitWindow time.Duration
	// CORSで許可するオリジン ("*" で全て許可)
	AllowedOrigins []string
}

// LogConfig ログ設定
type LogConfig struct {
	Level     string
	Directory string
}

// DatabaseConfig データベース設定
// Hostが空の場合はインメモリストアを使用する
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

// RedisConfig ジオフェンス用Redis設定
// Addrが空の場合はインメモリのレジストリを使用する
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// AuthConfig 認証設定
type AuthConfig struct {
	JWTSecret    string
	JWTExpiresIn time.Duration
}

// GeofenceConfig ジオフェンス設定
type GeofenceConfig struct {
	RadiusMeters float64
	MaxFences    int
}

// S3Config S3設定
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// SnapshotConfig リマインダーのスナップショット設定
type SnapshotConfig struct {
	Enabled  bool
	Interval time.Duration
	Prefix   string
}

// LoadConfig .envファイルと環境変数から設定を読み込み
func LoadConfig() *Config {
	// .envが無くてもエラーにはしない
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimit:       getIntEnv("RATE_LIMIT_REQUESTS", 120),
			RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			AllowedOrigins:  getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Directory: getEnv("LOG_DIRECTORY", "logs"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", ""),
			Port:     getIntEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "reminders"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getBoolEnv("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Key:      getEnv("REDIS_GEOFENCE_KEY", "geofences"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
			JWTExpiresIn: getDurationEnv("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Geofence: GeofenceConfig{
			RadiusMeters: getFloatEnv("GEOFENCE_RADIUS_METERS", 100),
			MaxFences:    getIntEnv("GEOFENCE_MAX_FENCES", 100),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"), // MinIO用のデフォルト
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "location-reminder-snapshots"),
			UseSSL:          getBoolEnv("S3_USE_SSL", false),
		},
		Snapshot: SnapshotConfig{
			Enabled:  getBoolEnv("SNAPSHOT_ENABLED", false),
			Interval: getDurationEnv("SNAPSHOT_INTERVAL", 1*time.Hour),
			Prefix:   getEnv("SNAPSHOT_PREFIX", "snapshots"),
		},
	}
}

// UseDatabase 外部データベースが設定されているか
func (c DatabaseConfig) UseDatabase() bool {
	return c.Host != ""
}

// UseRedis Redisが設定されているか
func (c RedisConfig) UseRedis() bool {
	return c.Addr != ""
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv 環境変数をboolで取得
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv 環境変数をintで取得
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv 環境変数をfloat64で取得
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv 環境変数をtime.Durationで取得（0以下はデフォルト値）
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv カンマ区切りの環境変数をスライスで取得
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
