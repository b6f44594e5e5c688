package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Level  string `validate:"required"`
	Format string `validate:"in:text,json,"`
	Output string
}

// PrepareLogger configures the standard logrus logger.
// Output is "stdout", "stderr" (default stdout) or a file path.
func PrepareLogger(config Config) error {
	level, err := log.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", config.Level, err)
	}
	log.SetLevel(level)

	switch config.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	out, err := output(config.Output)
	if err != nil {
		return err
	}
	log.SetOutput(out)
	return nil
}

func output(name string) (io.Writer, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", name, err)
		}
		return f, nil
	}
}
