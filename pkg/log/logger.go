package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	sferrors "github.com/YuminosukeSato/sfhousing/pkg/errors"
)

var (
	providerMu      sync.RWMutex
	defaultProvider = NewProvider(os.Stderr, LevelInfo)
)

// SetupLogger configures the process-wide loggers and returns the default one.
//
// format is "json" or "console". The zerolog logger becomes the default
// provider, warnings raised through pkg/errors are routed to it, and slog's
// default handler is wrapped by ErrFmtHandler so records from the standard
// library carry cockroachdb stack traces too.
func SetupLogger(loglevel, format string) (Logger, error) {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stdout
	switch format {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		return nil, errors.Newf("invalid log format: %s", format)
	}

	provider := NewProvider(w, level)
	SetProvider(provider)

	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "level"
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = zerolog.MessageFieldName
			}
			return attr
		},
	}
	slog.SetDefault(slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))))

	return provider.GetLogger(), nil
}

// ToLogLevel parses a level name.
func ToLogLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.Newf("invalid log level: %s", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// Provider implements LoggerProvider with a zerolog backend.
type Provider struct {
	mu     sync.RWMutex
	w      io.Writer
	level  Level
	logger *ZerologLogger
}

// NewProvider creates a provider writing to w.
func NewProvider(w io.Writer, level Level) *Provider {
	return &Provider{w: w, level: level, logger: NewZerologLogger(w, level)}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *Provider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *Provider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *Provider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.logger = NewZerologLogger(p.w, level)
}

// SetProvider replaces the default provider and routes pkg/errors warnings to it.
func SetProvider(p *Provider) {
	providerMu.Lock()
	defaultProvider = p
	providerMu.Unlock()

	sferrors.SetZerologWarnFunc(func(w error) {
		zl := p.GetLogger().(*ZerologLogger).Zerolog()
		ev := zl.Warn()
		var m zerolog.LogObjectMarshaler
		if errors.As(w, &m) {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

// GetLogger returns the default logger.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}
