package logger

import "gitlab.com/readerload.net/internal/adapter/logging"

var Logger = logging.NewZapLogger()

// Replace swaps the process-wide logger, used once config is known
func Replace(l *logging.ZapLogger) {
	Logger = l
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
