package logger

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// ZerologLogger emits structured JSON lines, used everywhere except
// local development.
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(appName, environment string) *ZerologLogger {
	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("app", appName).
		Str("env", environment).
		Logger()

	return &ZerologLogger{logger: zl}
}

func (l *ZerologLogger) WithFields(fields out.LogFields) out.LoggerPort {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

func (l *ZerologLogger) WithModule(module string) out.LoggerPort {
	return &ZerologLogger{logger: l.logger.With().Str("module", module).Logger()}
}

func (l *ZerologLogger) Debug(event string, fields out.LogFields) {
	l.emit(l.logger.Debug(), event, fields)
}

func (l *ZerologLogger) Info(event string, fields out.LogFields) {
	l.emit(l.logger.Info(), event, fields)
}

func (l *ZerologLogger) Warn(event string, fields out.LogFields) {
	l.emit(l.logger.Warn(), event, fields)
}

func (l *ZerologLogger) Error(event string, fields out.LogFields) {
	l.emit(l.logger.Error(), event, fields)
}

func (l *ZerologLogger) emit(ev *zerolog.Event, event string, fields out.LogFields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(event)
}
