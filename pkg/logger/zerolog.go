package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// FromZerolog adapts a zerolog.Logger to the Logger interface. The CLI uses
// this with a console writer; library consumers embedding the SDK in a
// zerolog application can reuse their root logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Error(msg string, args ...any) { l.emit(l.zl.Error(), msg, args) }
func (l *zerologLogger) Warn(msg string, args ...any)  { l.emit(l.zl.Warn(), msg, args) }
func (l *zerologLogger) Info(msg string, args ...any)  { l.emit(l.zl.Info(), msg, args) }
func (l *zerologLogger) Debug(msg string, args ...any) { l.emit(l.zl.Debug(), msg, args) }

// emit maps slog-style alternating key/value args onto zerolog fields. A
// trailing key without a value is logged under the "!BADKEY" field, same as
// slog does.
func (l *zerologLogger) emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}
	if len(args)%2 != 0 {
		ev = ev.Interface("!BADKEY", args[len(args)-1])
	}
	ev.Msg(msg)
}
