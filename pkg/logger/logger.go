package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	levelFlags = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	levelMap   = map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"fatal": LevelFatal,
	}
)

// Logger interface
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Fatal(format string, v ...interface{})

	// With returns a logger that appends key=value to every line.
	With(key string, value interface{}) Logger
}

// sink is shared by a logger and everything derived from it through With.
type sink struct {
	mu    sync.Mutex
	level LogLevel
	out   *log.Logger
}

type logger struct {
	sink   *sink
	fields string
}

var (
	instance *logger
	once     sync.Once
)

// GetLogger returns a singleton logger instance writing to stderr
func GetLogger() Logger {
	return root()
}

func root() *logger {
	once.Do(func() {
		level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
		if !ok {
			level = LevelInfo
		}
		instance = &logger{sink: &sink{level: level, out: log.New(os.Stderr, "", 0)}}
	})
	return instance
}

// New creates an independent logger. Used by tests to capture output.
func New(level string, w io.Writer) Logger {
	l, ok := ParseLevel(level)
	if !ok {
		l = LevelInfo
	}
	return &logger{sink: &sink{level: l, out: log.New(w, "", 0)}}
}

// ParseLevel maps a level name to a LogLevel. Empty input means info.
func ParseLevel(level string) (LogLevel, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return LevelInfo, true
	}
	l, ok := levelMap[level]
	return l, ok
}

// SetLogLevel sets the log level of the singleton logger
func SetLogLevel(level string) {
	if l, ok := ParseLevel(level); ok {
		s := root().sink
		s.mu.Lock()
		s.level = l
		s.mu.Unlock()
	}
}

func (l *logger) With(key string, value interface{}) Logger {
	return &logger{
		sink:   l.sink,
		fields: l.fields + fmt.Sprintf(" %s=%v", key, value),
	}
}

func (l *logger) log(level LogLevel, format string, v ...interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	line := fmt.Sprintf("[%s][%s]%s%s", getTimestamp(), levelFlags[level], msg, l.fields)

	if level == LevelFatal {
		l.sink.out.Fatal(line)
	}
	l.sink.out.Println(line)
}

func (l *logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

func (l *logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

func (l *logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

func (l *logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *logger) Fatal(format string, v ...interface{}) {
	l.log(LevelFatal, format, v...)
}

func getTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
