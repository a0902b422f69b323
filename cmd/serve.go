/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package cmd

import (
    "os"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/jira"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/openai"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/telegram"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    apphttp "github.com/NoSinging/JIRA-Issue-Analytics/internal/http"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/jobs"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/logger"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/services"
)

var serveCmd = &cobra.Command{
    Use:   "serve",
    Short: "Run the HTTP API and the digest scheduler",
    Run: func(cmd *cobra.Command, args []string) {
        cfg := config.Load()
        log := logger.New(cfg)

        // Adapters
        jc := jira.NewClient(cfg, log)
        llm := openai.NewClient(cfg, log)
        tg := telegram.NewClient(cfg, log)

        svc := services.New(cfg, log, jc, llm, tg)

        router := apphttp.NewRouter(cfg, log, svc)

        cron := jobs.NewCron(cfg, log, svc)
        cron.Start()
        defer cron.Stop()

        errCh := make(chan error, 1)
        go func() { errCh <- router.Run(cfg.HTTPAddr) }()
        log.Info().Str("addr", cfg.HTTPAddr).Msg("http server started")

        sigCh := make(chan os.Signal, 1)
        signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

        select {
        case <-sigCh:
            log.Info().Msg("shutting down...")
        case err := <-errCh:
            if err != nil { log.Error().Err(err).Msg("http server error") }
        }
    },
}
