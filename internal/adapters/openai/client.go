/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package openai

import (
    "context"
    "encoding/json"
    "errors"
    "strings"

    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
)

// Client produces short natural-language summaries of a report. It is
// optional wiring: when no API key is configured the service skips it.
type Client struct {
    key   string
    model string
    cli   openai.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    model := cfg.OpenAIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
    cli := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey), option.WithRequestTimeout(cfg.OpenAITimeout))
    return &Client{ key: cfg.OpenAIKey, model: model, cli: cli, log: log }
}

func (c *Client) Summarize(ctx context.Context, report *domain.Report) (string, error) {
    if strings.TrimSpace(c.key) == "" { return "", errors.New("openai: missing key") }
    c.log.Info().Str("model", c.model).Int("issues", len(report.Issues)).Msg("openai Summarize call")
    userContent := ""
    if b, err := json.Marshal(summaryPayload(report)); err == nil { userContent = string(b) }
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage("You are a delivery analyst. Given per-issue time spent in each workflow status, write a two-sentence summary calling out the slowest statuses and any issues stuck for unusually long. Plain text only."),
            openai.UserMessage(userContent),
        },
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", err }
    if len(resp.Choices) == 0 { return "", errors.New("openai: no choices") }
    return resp.Choices[0].Message.Content, nil
}

// summaryPayload trims the report down to what the model needs: keys,
// current statuses and the hour totals. Timelines and errors stay out.
func summaryPayload(report *domain.Report) map[string]any {
    issues := make([]map[string]any, 0, len(report.Issues))
    for _, ir := range report.Issues {
        if ir.Err != "" { continue }
        issues = append(issues, map[string]any{
            "key":    ir.Issue.Key,
            "status": ir.Issue.Status,
            "hours":  ir.Durations,
        })
    }
    return map[string]any{"jql": report.JQL, "issues": issues, "failed": report.Failed()}
}
