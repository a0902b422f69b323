package logger

import (
    "os"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// New builds the process logger: human-readable console output in dev,
// structured JSON otherwise. The global log.Logger is replaced as well so
// stray package-level logging stays consistent.
func New(cfg config.Config) zerolog.Logger {
    if cfg.AppEnv == "dev" {
        output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
        logger := zerolog.New(output).With().Timestamp().Str("app", "jira-analytics").Logger()
        log.Logger = logger
        return logger
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "jira-analytics").Logger()
    log.Logger = logger
    return logger
}
