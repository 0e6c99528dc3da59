package charmtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
)

// Logger keeps every formatted record as "LEVEL message"
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

var _ logging.Logger = (*Logger)(nil)

func (l *Logger) LogLevelf(level int, format string, args ...interface{}) {
	name := "INFO"
	switch level {
	case logging.LogLevelDebug:
		name = "DEBUG"
	case logging.LogLevelWarn:
		name = "WARN"
	case logging.LogLevelError:
		name = "ERROR"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, name+" "+fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.LogLevelf(logging.LogLevelDebug, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.LogLevelf(logging.LogLevelInfo, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.LogLevelf(logging.LogLevelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.LogLevelf(logging.LogLevelError, format, args...)
}

// Contains reports whether some entry contains text
func (l *Logger) Contains(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.Entries {
		if strings.Contains(entry, text) {
			return true
		}
	}
	return false
}
