package api

import "github.com/rs/zerolog"

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

// Debug is used by retryablehttp for every attempt, so it is demoted to
// trace level.
func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
