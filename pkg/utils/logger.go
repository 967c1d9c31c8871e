// Package utils предоставляет логгер приложения и graceful shutdown.
//
// Логгер — тонкая обёртка над zap: пакетные функции Info/Warn/Error/Debug
// с парами ключ-значение. До InitLogger все вызовы молча игнорируются.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMutex sync.RWMutex
	logger   *zap.SugaredLogger
)

// LoggerConfig — параметры инициализации логгера.
type LoggerConfig struct {
	// Level — debug, info, warn, error
	Level string

	// Dir — директория для .log файла; пусто означает stderr
	Dir string

	// JSON — формат записи (json или console)
	JSON bool
}

// InitLogger настраивает глобальный логгер.
//
// Имя файла: rakuten-agent-YYYY-MM-DD-HH-MM.log в директории cfg.Dir.
// Повторный вызов заменяет логгер.
func InitLogger(cfg LoggerConfig) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	var filename string
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		filename = filepath.Join(cfg.Dir, fmt.Sprintf("rakuten-agent-%s.log", time.Now().Format("2006-01-02-15-04")))
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.Lock(f)
	}

	core := zapcore.NewCore(encoder, sink, parseLevel(cfg.Level))
	SetLogger(zap.New(core))

	if filename != "" {
		Info("Logger initialized", "file", filename)
	}
	return nil
}

// SetLogger подменяет глобальный логгер (используется в тестах с zaptest/observer).
func SetLogger(l *zap.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logger != nil {
		_ = logger.Sync()
	}
	if l == nil {
		logger = nil
		return
	}
	logger = l.Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Infow(msg, keyvals...)
	}
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Errorw(msg, keyvals...)
	}
}

// Debug - отладочное сообщение.
func Debug(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Debugw(msg, keyvals...)
	}
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Warnw(msg, keyvals...)
	}
}

func current() *zap.SugaredLogger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logger
}

// Close сбрасывает буферы и отключает логгер.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logger != nil {
		// Sync на stderr возвращает EINVAL на некоторых платформах — игнорируем
		_ = logger.Sync()
		logger = nil
	}
}
