// Package logger — тонкая обёртка над log/slog с printf-стилем,
// которую используют все слои приложения.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Logger минимальный интерфейс логгера приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	With(args ...any) Logger
}

// SlogLogger реализует Logger поверх *slog.Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger создаёт логгер по переменным окружения APP_ENV и LOG_LEVEL.
// Вызывается до загрузки конфигурации, поэтому читает окружение напрямую.
func NewSlogLogger() *SlogLogger {
	return New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"), os.Stdout)
}

// New создаёт логгер: JSON в prod, цветной tint-вывод во всех остальных окружениях.
func New(env, level string, w io.Writer) *SlogLogger {
	isProd := env == "prod" || env == "production"

	if level == "" {
		if isProd {
			level = "info"
		} else {
			level = "debug"
		}
	}
	lvl := ParseLevel(level)

	var h slog.Handler
	if isProd {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05.000",
		})
	}

	return &SlogLogger{l: slog.New(h)}
}

// NewNop возвращает логгер, который ничего не пишет. Удобен в тестах.
func NewNop() *SlogLogger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel переводит строковый уровень в slog.Level, по умолчанию info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *SlogLogger) Debugf(format string, args ...any) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Infof(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Errorf(err error, format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...), "err", err)
}

// With возвращает логгер с дополнительными атрибутами.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

// Slog отдаёт нижележащий *slog.Logger для библиотек, которые его принимают.
func (s *SlogLogger) Slog() *slog.Logger {
	return s.l
}
