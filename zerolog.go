package dynamic

import "github.com/rs/zerolog"

type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return zerologLogger{l: l}
}

func (z zerologLogger) Info(format string, args ...any)  { z.l.Info().Msgf(format, args...) }
func (z zerologLogger) Warn(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z zerologLogger) Error(format string, args ...any) { z.l.Error().Msgf(format, args...) }
func (z zerologLogger) Debug(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
