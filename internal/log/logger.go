package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package-level debug logging for the whole client. Once the terminal
// screen is initialized nothing may write to stdout, so the logger stays
// disabled until SetFileOutput points it at a file.

var globalLogger *zap.SugaredLogger

// SetFileOutput configures the logger to append to the specified file.
func SetFileOutput(filename string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(file),
		zapcore.DebugLevel,
	)

	if globalLogger != nil {
		globalLogger.Sync()
	}
	globalLogger = zap.New(core).Sugar()
	return nil
}

func Debug(msg string, keysAndValues ...any) {
	if globalLogger != nil {
		globalLogger.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...any) {
	if globalLogger != nil {
		globalLogger.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...any) {
	if globalLogger != nil {
		globalLogger.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...any) {
	if globalLogger != nil {
		globalLogger.Errorw(msg, keysAndValues...)
	}
}

// Close flushes any buffered log entries.
func Close() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
