package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; production -> JSON
	Level string // debug, info, warn, error
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en
// production JSON. Redirige también el logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug, Info, Warn, Error, Fatal delegados a zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component crea un sublogger con el campo "component" fijo.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
