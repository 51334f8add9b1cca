// Package kzerolog binds kgo.Logger to github.com/rs/zerolog.
package kzerolog

import (
	"github.com/rs/zerolog"

	"github.com/platformatic/kgo"
)

// Logger adapts a zerolog.Logger to kgo.Logger. The zero value is not
// usable; construct with New.
type Logger struct {
	zl    zerolog.Logger
	level kgo.LogLevel
}

// New returns a kgo.Logger that logs through zl. level caps which calls are
// forwarded, mirroring kgo.BasicLogger's own level gate so callers get
// consistent behavior regardless of which Logger they chose.
func New(zl zerolog.Logger, level kgo.LogLevel) *Logger {
	return &Logger{zl: zl, level: level}
}

func (l *Logger) Level() kgo.LogLevel { return l.level }

func (l *Logger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	if level > l.level || level == kgo.LogLevelNone {
		return
	}
	ev := l.event(level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}

func (l *Logger) event(level kgo.LogLevel) *zerolog.Event {
	switch level {
	case kgo.LogLevelError:
		return l.zl.Error()
	case kgo.LogLevelWarn:
		return l.zl.Warn()
	case kgo.LogLevelInfo:
		return l.zl.Info()
	case kgo.LogLevelDebug:
		return l.zl.Debug()
	default:
		return l.zl.Log()
	}
}
