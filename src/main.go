package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"location-reminder/src/config"
	"location-reminder/src/database"
	"location-reminder/src/dispatch"
	"location-reminder/src/domain"
	"location-reminder/src/geofence"
	"location-reminder/src/infrastructure/memory"
	"location-reminder/src/infrastructure/postgres"
	"location-reminder/src/infrastructure/redis"
	"location-reminder/src/interface/handler"
	"location-reminder/src/logger"
	"location-reminder/src/middleware"
	"location-reminder/src/repository"
	"location-reminder/src/routes"
	"location-reminder/src/service"
	"location-reminder/src/storage"
	"location-reminder/src/usecase"
	"location-reminder/src/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	issueToken := flag.String("issue-token", "", "指定したユーザーIDのアクセストークンを発行して終了する")
	flag.Parse()

	// 設定を読み込み
	cfg := config.LoadConfig()

	jwtService := service.NewJWTService(cfg)
	if *issueToken != "" {
		token, err := jwtService.GenerateAccessToken(*issueToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "トークンの発行に失敗: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	// ロガーを初期化
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// リマインダーの保存先
	var (
		store  domain.ReminderStore
		health routes.HealthCheck
	)
	if cfg.Database.UseDatabase() {
		db, err := database.NewDB(&database.Config{
			Driver:   cfg.Database.Driver,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Fatal("データベースへの接続に失敗")
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := db.Migrate(); err != nil {
				logger.Log.WithError(err).Fatal("マイグレーションに失敗")
			}
		}

		store = postgres.NewReminderStore(db, logger.Log)
		health = func(ctx context.Context) error { return db.PingContext(ctx) }
	} else {
		logger.Log.Warn("DB_HOSTが未設定のためインメモリストアを使用します")
		store = memory.NewReminderStore()
	}

	// ジオフェンスの登録先
	var registry geofence.Registry
	if cfg.Redis.UseRedis() {
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Log.WithError(err).Fatal("Redisへの接続に失敗")
		}
		defer client.Close()

		registry = redis.NewGeofenceRegistry(client, cfg.Redis.Key, cfg.Geofence.RadiusMeters, cfg.Geofence.MaxFences, logger.Log)
	} else {
		registry = geofence.NewMemoryRegistry(cfg.Geofence.RadiusMeters, cfg.Geofence.MaxFences)
	}

	// ストアへのアクセスは単一のワーカーで直列に実行する
	worker := dispatch.NewSerial()
	defer worker.Close()

	dataSource := repository.NewRemindersLocalRepository(store, worker, logger.Log)
	reminderUsecase := usecase.NewReminderUsecase(dataSource, registry)
	reminderHandler := handler.NewReminderHandler(reminderUsecase, validator.NewCustomValidator(), logger.Log)

	// S3スナップショットを初期化（設定が有効な場合）
	if cfg.Snapshot.Enabled {
		uploader, err := storage.NewSnapshotUploader(&storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Prefix:          cfg.Snapshot.Prefix,
		}, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			uploader.StartPeriodicSnapshot(ctx, dataSource, cfg.Snapshot.Interval)
		}
	}

	// Ginルーターを初期化
	r := gin.New()
	r.Use(gin.Recovery())
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
	routes.SetupRoutes(r, reminderHandler, jwtService, limiter, health, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	// グレースフルシャットダウン
	<-ctx.Done()
	logger.Log.Info("シャットダウンシグナルを受信しました")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("サーバーのシャットダウンに失敗")
	}
	logger.Log.Info("サーバーを停止しました")
}
