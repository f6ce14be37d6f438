package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"location-reminder/src/domain"
	"location-reminder/src/repository"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
)

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
	// Prefix スナップショットを置くキーのプレフィックス
	Prefix string
}

// Snapshot S3に書き出すリマインダー一覧
type Snapshot struct {
	TakenAt   time.Time         `json:"taken_at"`
	Count     int               `json:"count"`
	Reminders []domain.Reminder `json:"reminders"`
}

// SnapshotUploader リマインダーのスナップショットをS3へ書き出す
type SnapshotUploader struct {
	s3Client *s3.S3
	config   *S3Config
	logger   *logrus.Logger
	now      func() time.Time
}

// NewSnapshotUploader S3アップローダーを作成
func NewSnapshotUploader(config *S3Config, logger *logrus.Logger) (*SnapshotUploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!config.UseSSL),
		S3ForcePathStyle: aws.Bool(true), // MinIOなどのS3互換ストレージ用
	}

	// エンドポイントが指定されている場合（MinIOなど）
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWSセッションの作成に失敗: %w", err)
	}

	return &SnapshotUploader{
		s3Client: s3.New(sess),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// objectKey スナップショットのオブジェクトキーを生成
func (u *SnapshotUploader) objectKey(takenAt time.Time) string {
	name := fmt.Sprintf("reminders_%s.json", takenAt.UTC().Format("2006-01-02_15-04-05"))
	if u.config.Prefix == "" {
		return name
	}
	return path.Join(u.config.Prefix, name)
}

// UploadSnapshot 現在のリマインダー一覧をJSONでS3にアップロードし、キーを返す
func (u *SnapshotUploader) UploadSnapshot(ctx context.Context, source repository.ReminderDataSource) (string, error) {
	res := source.GetReminders(ctx)
	reminders, err := res.Unwrap()
	if err != nil {
		return "", fmt.Errorf("リマインダーの取得に失敗: %w", err)
	}

	takenAt := u.now()
	body, err := json.Marshal(Snapshot{
		TakenAt:   takenAt.UTC(),
		Count:     len(reminders),
		Reminders: reminders,
	})
	if err != nil {
		return "", fmt.Errorf("スナップショットのエンコードに失敗: %w", err)
	}

	key := u.objectKey(takenAt)
	_, err = u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]*string{
			"upload-time": aws.String(takenAt.UTC().Format(time.RFC3339)),
			"source":      aws.String("location-reminder"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("S3アップロードに失敗: %w", err)
	}

	u.logger.WithFields(logrus.Fields{
		"bucket": u.config.Bucket,
		"key":    key,
		"count":  len(reminders),
	}).Info("スナップショットをS3にアップロードしました")

	return key, nil
}

// StartPeriodicSnapshot ctxが終了するまで定期的にスナップショットを作成
func (u *SnapshotUploader) StartPeriodicSnapshot(ctx context.Context, source repository.ReminderDataSource, interval time.Duration) {
	if interval <= 0 {
		u.logger.WithField("interval", interval).Warn("スナップショット間隔が不正なため定期実行を開始しません")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := u.UploadSnapshot(ctx, source); err != nil {
					u.logger.WithError(err).Error("定期的なスナップショットに失敗")
				}
			}
		}
	}()

	u.logger.WithField("interval", interval).Info("定期的なスナップショットを開始しました")
}
