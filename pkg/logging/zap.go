package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JujuLogFunc forwards one rendered record to the host's juju-log tool.
// level is one of DEBUG, INFO, WARNING, ERROR.
type JujuLogFunc func(level string, message string) error

// ZapOptions configures the zap backend behind a Logger
type ZapOptions struct {
	Level int

	// Output receives console-encoded records; os.Stderr when nil
	Output io.Writer

	// JujuLog, when set, receives every enabled record as well
	JujuLog JujuLogFunc
}

// NewZapLogger creates a Logger backed by zap. The returned func flushes
// buffered records and should be deferred by the caller.
func NewZapLogger(prefix string, options ZapOptions) (Logger, func() error) {
	level := zap.NewAtomicLevelAt(toZapLevel(options.Level))

	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(zapcore.AddSync(output)), level),
	}
	if options.JujuLog != nil {
		cores = append(cores, &jujuLogCore{LevelEnabler: level, logf: options.JujuLog})
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	sugar := zapLogger.Sugar()

	return NewLogger(prefix, LogFuncs{
		Debugf: sugar.Debugf,
		Infof:  sugar.Infof,
		Warnf:  sugar.Warnf,
		Errorf: sugar.Errorf,
	}), zapLogger.Sync
}

func toZapLevel(level int) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// jujuLogCore is a zapcore.Core that hands each record to juju-log, the
// same way the operator framework routes Python logging.
type jujuLogCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
	logf   JujuLogFunc
}

func (c *jujuLogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

func (c *jujuLogCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *jujuLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	message := entry.Message

	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	if len(all) > 0 {
		encoder := zapcore.NewMapObjectEncoder()
		for _, field := range all {
			field.AddTo(encoder)
		}
		keys := make([]string, 0, len(encoder.Fields))
		for key := range encoder.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", key, encoder.Fields[key]))
		}
		message += " " + strings.Join(parts, " ")
	}

	return c.logf(jujuLogLevel(entry.Level), message)
}

func (c *jujuLogCore) Sync() error {
	return nil
}

func jujuLogLevel(level zapcore.Level) string {
	switch {
	case level <= zapcore.DebugLevel:
		return "DEBUG"
	case level == zapcore.InfoLevel:
		return "INFO"
	case level == zapcore.WarnLevel:
		return "WARNING"
	default:
		return "ERROR"
	}
}
