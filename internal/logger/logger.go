package logger

import (
	"blogicum/internal/config"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Fields are structured key/value pairs attached to log lines.
type Fields = map[string]interface{}

// Logger defines a standard interface for logging.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error, msg string)
	Fatal(err error, msg string)
	With(fields Fields) Logger
	// Named tags every line with the part of the blog that wrote it,
	// e.g. "posts", "auth" or "blogctl".
	Named(component string) Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

// New creates a Logger writing to out. Format "console" gives
// human-readable lines, anything else JSON. An unknown level falls back to
// info and says so on out.
func New(cfg config.LogConfig, out io.Writer) Logger {
	output := out
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	badLevel := err != nil || cfg.Level == ""
	if badLevel {
		level = zerolog.InfoLevel
	}

	l := &zerologLogger{logger: zerolog.New(output).Level(level).With().Timestamp().Logger()}
	if badLevel {
		l.logger.Warn().Str("level", cfg.Level).Msg("Invalid log level, defaulting to info")
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zerologLogger{logger: zerolog.Nop()}
}

func (l *zerologLogger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *zerologLogger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *zerologLogger) Warn(msg string)  { l.logger.Warn().Msg(msg) }

func (l *zerologLogger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

func (l *zerologLogger) Fatal(err error, msg string) {
	l.logger.Fatal().Err(err).Msg(msg)
}

func (l *zerologLogger) With(fields Fields) Logger {
	return &zerologLogger{logger: l.logger.With().Fields(fields).Logger()}
}

func (l *zerologLogger) Named(component string) Logger {
	return &zerologLogger{logger: l.logger.With().Str("component", component).Logger()}
}
