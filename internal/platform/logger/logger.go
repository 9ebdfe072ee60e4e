package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New crea el logger del servicio sobre zerolog.
// LOG_FORMAT=console activa salida legible para dev; default JSON a stdout.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out = os.Stdout
	base := zerolog.New(out).With().Timestamp().Str("app", "pet-adoption-api").Logger()

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		base = base.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return base.Level(ParseLevel(level))
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
