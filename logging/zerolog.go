// Package logging adapts zerolog to the sequencer logging interface.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/motionkit/sequencer/core"
)

// ZerologAdapter emits sequencer log records through a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

var _ core.Logger = (*ZerologAdapter)(nil)

// Wrap adapts an existing zerolog.Logger.
func Wrap(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// New builds an adapter writing JSON records to w with timestamps.
func New(w io.Writer) *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.New(w).With().Timestamp().Logger()}
}

func (a *ZerologAdapter) Debug(msg string, fields ...core.Field) {
	a.emit(a.logger.Debug(), msg, fields)
}

func (a *ZerologAdapter) Info(msg string, fields ...core.Field) {
	a.emit(a.logger.Info(), msg, fields)
}

func (a *ZerologAdapter) Warn(msg string, fields ...core.Field) {
	a.emit(a.logger.Warn(), msg, fields)
}

func (a *ZerologAdapter) Error(msg string, fields ...core.Field) {
	a.emit(a.logger.Error(), msg, fields)
}

func (a *ZerologAdapter) emit(ev *zerolog.Event, msg string, fields []core.Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case float64:
			ev = ev.Float64(f.Key, v)
		case time.Duration:
			ev = ev.Dur(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}
