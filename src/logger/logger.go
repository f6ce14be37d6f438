package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	Log         *logrus.Logger
	currentFile *os.File
)

func init() {
	// InitLogger前に呼ばれてもnilにならないようにする
	Log = logrus.New()
}

// InitLogger ロガーを初期化し、標準出力とファイルへの出力を設定
func InitLogger(level, directory string) error {
	Log = logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	// JSON形式でログを出力
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	if directory == "" {
		Log.SetOutput(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("ログディレクトリの作成に失敗: %w", err)
	}

	if err := openLogFile(directory); err != nil {
		return fmt.Errorf("ログファイルの作成に失敗: %w", err)
	}

	Log.SetOutput(io.MultiWriter(os.Stdout, currentFile))

	Log.WithField("level", parsed.String()).Info("ロガーが初期化されました")
	return nil
}

// openLogFile タイムスタンプ付きのログファイルを開く
func openLogFile(directory string) error {
	if currentFile != nil {
		currentFile.Close()
	}

	name := fmt.Sprintf("reminders_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(directory, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	currentFile = file
	return nil
}

// GetCurrentLogFile 現在のログファイルパスを取得
func GetCurrentLogFile() string {
	if currentFile != nil {
		return currentFile.Name()
	}
	return ""
}

// CloseLogger ロガーを終了
func CloseLogger() {
	if currentFile != nil {
		Log.Info("ログファイルを閉じます")
		Log.SetOutput(os.Stdout)
		currentFile.Close()
		currentFile = nil
	}
}

// WithFields フィールド付きログエントリを作成
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// WithField フィールド付きログエントリを作成（単一フィールド）
func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}
