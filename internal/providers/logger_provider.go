package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"checkin-importer/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum string

const (
	TypeApp    TypeEnum = "app"
	TypeImport TypeEnum = "import"
	TypeMatch  TypeEnum = "match"
	TypeStore  TypeEnum = "store"
)

const logFileName = "importer.log"

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	// Fields logs one structured event at info level.
	Fields(t TypeEnum, msg string, fields map[string]interface{})
	Close()
}

type LogProvider struct {
	logger zerolog.Logger
	file   *os.File
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Error().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Warn().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Debug().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.logger.Info().Str("type", string(t)).Msgf(format, args...)
}

// Fatalf logs at fatal level without exiting; the caller decides the exit code.
func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.logger.WithLevel(zerolog.FatalLevel).Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Fields(t TypeEnum, msg string, fields map[string]interface{}) {
	l.logger.Info().Str("type", string(t)).Fields(fields).Msg(msg)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Sync()
		_ = l.file.Close()
		l.file = nil
	}
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	path := filepath.Join(conf.Logger.Dir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, fmt.Errorf("unable to open log file %s: %w", path, err)
	}

	var out io.Writer = file
	if conf.Logger.Console {
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", conf.AppName).Logger()
	return &LogProvider{logger: logger, file: file}, nil
}
