package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New はGO_ENVに応じたロガーを作る（devはコンソール、prodはJSON）。
func New(goEnv, level string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if goEnv != "prod" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, level)
}

func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "storefront-api").
		Logger()
}
