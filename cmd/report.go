/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package cmd

import (
    "context"
    "fmt"
    "time"

    "github.com/spf13/cobra"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/jira"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/logger"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/services"
)

var reportCmd = &cobra.Command{
    Use:   "report",
    Short: "Fetch issues once and print time spent in each status",
    RunE: func(cmd *cobra.Command, args []string) error {
        cfg := config.Load()
        log := logger.New(cfg)

        jc := jira.NewClient(cfg, log)
        svc := services.New(cfg, log, jc, nil, nil)

        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
        defer cancel()

        key, _ := cmd.Flags().GetString("issue")
        jql, _ := cmd.Flags().GetString("jql")

        var report *domain.Report
        if key != "" {
            rep, err := svc.IssueDurations(ctx, key)
            if err != nil { return err }
            report = &domain.Report{GeneratedAt: time.Now(), Issues: []domain.IssueReport{*rep}}
        } else {
            var err error
            report, err = svc.CollectReport(ctx, jql)
            if err != nil { return err }
        }

        fmt.Print(services.RenderText(report))
        return nil
    },
}

func init() {
    reportCmd.Flags().StringP("issue", "i", "", "Report a single issue key (e.g. PROJ-123)")
    reportCmd.Flags().StringP("jql", "q", "", "JQL filter for the issue listing (defaults to the configured project)")
}
