package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultService = "gowallet"

// Config holds logger configuration.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json, console
	Output io.Writer // defaults to os.Stdout

	// Service is attached to every line; defaults to "gowallet".
	Service string
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	service := cfg.Service
	if service == "" {
		service = defaultService
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
}

// WithRequest returns log enriched with the request id chi assigned to ctx.
func WithRequest(ctx context.Context, log zerolog.Logger) zerolog.Logger {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		return log
	}
	return log.With().Str("request_id", reqID).Logger()
}

// parseLevel accepts any zerolog level name plus "warning", case-insensitive.
// Unknown or empty names fall back to info.
func parseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := zerolog.ParseLevel(name)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
