package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "time/tzdata"

	"github.com/tphakala/notes-go/internal/errors"
)

// traceLevelValue sits below slog.LevelDebug (-4).
const traceLevelValue = slog.Level(-8)

var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal replaces the process-wide logger. Passing nil restores the
// console fallback on the next call to Global.
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = cl
}

// Global returns the process-wide logger. Before serve installs one it is a
// plain console logger at the default level.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		globalLogger = consoleOnly(os.Stdout)
	}
	return globalLogger
}

func consoleOnly(w io.Writer) *CentralLogger {
	level := parseLogLevel(DefaultLogLevel)
	return &CentralLogger{
		config:   &LoggingConfig{DefaultLevel: DefaultLogLevel},
		timezone: time.Local,
		base:     newTextHandler(w, level, time.Local),
		writers:  make(map[string]*BufferedFileWriter),
	}
}

// CentralLogger hands out module loggers. Modules listed in
// LoggingConfig.ModuleOutputs write to their own file, everything else goes
// to the shared console/file handler.
type CentralLogger struct {
	config   *LoggingConfig
	timezone *time.Location
	base     slog.Handler

	mu      sync.RWMutex
	writers map[string]*BufferedFileWriter // keyed by file path
}

// NewCentralLogger opens every configured log file and builds the shared handler.
func NewCentralLogger(cfg *LoggingConfig) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}
	applyConfigDefaults(cfg)

	tz, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cl := &CentralLogger{
		config:   cfg,
		timezone: tz,
		writers:  make(map[string]*BufferedFileWriter),
	}

	var shared []slog.Handler
	if cfg.Console.Enabled {
		shared = append(shared, newTextHandler(os.Stdout, parseLogLevel(cfg.Console.Level), tz))
	}
	if cfg.FileOutput.Enabled {
		w, err := cl.writerFor(cfg.FileOutput.Path)
		if err != nil {
			_ = cl.Close()
			return nil, err
		}
		shared = append(shared, newJSONHandler(w, parseLogLevel(cfg.FileOutput.Level), tz))
	}
	if len(shared) == 0 {
		shared = append(shared, newTextHandler(os.Stdout, parseLogLevel(cfg.DefaultLevel), tz))
	}
	cl.base = fanOut(shared)

	for module, out := range cfg.ModuleOutputs {
		if !out.Enabled || out.FilePath == "" {
			continue
		}
		if _, err := cl.writerFor(out.FilePath); err != nil {
			_ = cl.Close()
			return nil, fmt.Errorf("module %s: %w", module, err)
		}
	}

	return cl, nil
}

// writerFor returns the writer for path, opening it on first use so that
// modules sharing a file share one writer.
func (cl *CentralLogger) writerFor(path string) (*BufferedFileWriter, error) {
	if w, ok := cl.writers[path]; ok {
		return w, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	w, err := NewBufferedFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	cl.writers[path] = w
	return w, nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", name, err)
	}
	return tz, nil
}

// Module returns a logger for the named component.
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	level := cl.levelFor(name)
	handler := cl.base

	if out, ok := cl.config.ModuleOutputs[name]; ok && out.Enabled {
		if w, ok := cl.writers[out.FilePath]; ok {
			handlers := []slog.Handler{newJSONHandler(w, level, cl.timezone)}
			if out.ConsoleAlso && cl.config.Console != nil && cl.config.Console.Enabled {
				handlers = append(handlers, newTextHandler(os.Stdout, level, cl.timezone))
			}
			handler = fanOut(handlers)
		}
	}

	return &moduleLogger{
		module: name,
		logger: slog.New(handler),
		level:  level,
	}
}

// levelFor resolves a module's threshold: the module output level wins over
// module_levels, which wins over the default level.
func (cl *CentralLogger) levelFor(name string) slog.Level {
	if out, ok := cl.config.ModuleOutputs[name]; ok && out.Level != "" {
		return parseLogLevel(out.Level)
	}
	if lvl, ok := cl.config.ModuleLevels[name]; ok {
		return parseLogLevel(lvl)
	}
	return parseLogLevel(cl.config.DefaultLevel)
}

// Close flushes and closes every log file. It is safe to call more than once.
func (cl *CentralLogger) Close() error {
	if cl == nil {
		return nil
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	var errs []error
	for path, w := range cl.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file %s: %w", path, err))
		}
	}
	clear(cl.writers)
	return errors.Join(errs...)
}

func fanOut(handlers []slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return newMultiWriterHandler(handlers...)
}

func parseLogLevel(level string) slog.Level {
	return parseSlogLevel(LogLevel(level))
}

// parseSlogLevel maps a LogLevel onto slog. Unknown names mean info.
func parseSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelTrace:
		return traceLevelValue
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
