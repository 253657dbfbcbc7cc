package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// New builds a leveled zerolog logger writing JSON lines to w.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// NewConsole is New with a human readable writer, on stderr when out is nil.
func NewConsole(level string, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	return New(level, zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
	})
}

// Wails routes the framework's own log output into zerolog.
type Wails struct {
	log zerolog.Logger
}

var _ wailslogger.Logger = (*Wails)(nil)

// NewWails routes Wails' internal logging into log.
func NewWails(log zerolog.Logger) *Wails {
	return &Wails{log: log.With().Str("component", "wails").Logger()}
}

func (w *Wails) Print(message string)   { w.log.Log().Msg(message) }
func (w *Wails) Trace(message string)   { w.log.Trace().Msg(message) }
func (w *Wails) Debug(message string)   { w.log.Debug().Msg(message) }
func (w *Wails) Info(message string)    { w.log.Info().Msg(message) }
func (w *Wails) Warning(message string) { w.log.Warn().Msg(message) }
func (w *Wails) Error(message string)   { w.log.Error().Msg(message) }

// Fatal exits the process, as the framework's default logger does.
func (w *Wails) Fatal(message string) { w.log.Fatal().Msg(message) }

// WailsLevel maps a zerolog level onto the framework's level scale.
func WailsLevel(lvl zerolog.Level) wailslogger.LogLevel {
	switch {
	case lvl <= zerolog.TraceLevel:
		return wailslogger.TRACE
	case lvl == zerolog.DebugLevel:
		return wailslogger.DEBUG
	case lvl == zerolog.InfoLevel:
		return wailslogger.INFO
	case lvl == zerolog.WarnLevel:
		return wailslogger.WARNING
	default:
		return wailslogger.ERROR
	}
}
