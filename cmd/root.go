/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package cmd

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
    Use:   "jira-analytics",
    Short: "Time-in-status analytics for Jira issues",
    Long: `jira-analytics fetches issues and their changelogs from the Jira REST API
and reports how many wall-clock hours each issue spent in every workflow status.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "Error: %v\n", err)
        os.Exit(1)
    }
}

func init() {
    rootCmd.AddCommand(serveCmd)
    rootCmd.AddCommand(reportCmd)
    rootCmd.AddCommand(versionCmd)
}
