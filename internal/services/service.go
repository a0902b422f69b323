/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/jira"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/durations"
    "github.com/rs/zerolog"
)

type JiraClient interface {
    SearchIssues(ctx context.Context, jql string, startAt, max int) (*jira.IssuePage, error)
    Changelog(ctx context.Context, key string, startAt, max int) (*jira.ChangelogPage, error)
}

type Summarizer interface {
    Summarize(ctx context.Context, report *domain.Report) (string, error)
}

type Notifier interface {
    SendMessagePlain(ctx context.Context, chatID int64, text string) error
    SendMarkdownV2(ctx context.Context, chatID int64, text string) error
}

type Service struct {
    cfg  config.Config
    log  zerolog.Logger
    jira JiraClient
    llm  Summarizer
    tg   Notifier
    now  func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, jc JiraClient, llm Summarizer, tg Notifier) *Service {
    return &Service{cfg: cfg, log: log, jira: jc, llm: llm, tg: tg, now: time.Now}
}

// defaultJQL mirrors the tracker UI's default project listing.
func (s *Service) defaultJQL() string {
    if strings.TrimSpace(s.cfg.JiraJQL) != "" { return s.cfg.JiraJQL }
    return fmt.Sprintf("project = %s ORDER BY created DESC", s.cfg.JiraProject)
}

// CollectReport lists one page of issues and computes status durations for
// each. A failed listing fails the whole run; a failed changelog fetch or
// calculation is recorded on that issue's entry and the run continues, so one
// bad issue cannot sink the report.
func (s *Service) CollectReport(ctx context.Context, jql string) (*domain.Report, error) {
    if strings.TrimSpace(jql) == "" { jql = s.defaultJQL() }
    page, err := s.jira.SearchIssues(ctx, jql, 0, s.cfg.PageSize)
    if err != nil { return nil, fmt.Errorf("list issues: %w", err) }

    report := &domain.Report{GeneratedAt: s.now(), JQL: jql}
    for _, iss := range page.Issues {
        report.Issues = append(report.Issues, s.computeIssue(ctx, iss))
    }
    s.log.Info().Str("jql", jql).Int("issues", len(report.Issues)).Int("failed", report.Failed()).Msg("report collected")
    return report, nil
}

// IssueDurations computes durations for a single issue key. Unlike
// CollectReport it propagates failures as wrapped errors, so callers can
// distinguish calculation errors from transport ones with errors.Is.
func (s *Service) IssueDurations(ctx context.Context, key string) (*domain.IssueReport, error) {
    if strings.TrimSpace(key) == "" { return nil, fmt.Errorf("empty issue key") }
    page, err := s.jira.SearchIssues(ctx, fmt.Sprintf("key = %s", key), 0, 1)
    if err != nil { return nil, fmt.Errorf("issue %s: %w", key, err) }
    if len(page.Issues) == 0 { return nil, fmt.Errorf("issue %s: not found", key) }
    iss := page.Issues[0]
    clog, err := s.jira.Changelog(ctx, iss.Key, 0, 100)
    if err != nil { return nil, fmt.Errorf("issue %s changelog: %w", key, err) }
    timeline, err := durations.Timeline(clog.Entries, iss.CreatedAt, s.now(), durations.WithInitialStatus(s.cfg.InitialStatus))
    if err != nil { return nil, fmt.Errorf("issue %s: %w", key, err) }
    return &domain.IssueReport{Issue: iss, Timeline: timeline, Durations: durations.Sum(timeline)}, nil
}

func (s *Service) computeIssue(ctx context.Context, iss domain.Issue) domain.IssueReport {
    rep := domain.IssueReport{Issue: iss}
    page, err := s.jira.Changelog(ctx, iss.Key, 0, 100)
    if err != nil {
        s.log.Error().Err(err).Str("key", iss.Key).Msg("changelog fetch failed")
        rep.Err = fmt.Sprintf("changelog fetch: %v", err)
        return rep
    }
    now := s.now()
    opt := durations.WithInitialStatus(s.cfg.InitialStatus)
    timeline, err := durations.Timeline(page.Entries, iss.CreatedAt, now, opt)
    if err != nil {
        s.log.Error().Err(err).Str("key", iss.Key).Msg("duration calculation failed")
        rep.Err = fmt.Sprintf("calculation: %v", err)
        return rep
    }
    rep.Timeline = timeline
    rep.Durations = durations.Sum(timeline)
    return rep
}

// RunDigest collects a report, renders it and delivers it to the configured
// Telegram chats. With an OpenAI key configured the digest is prefixed by a
// short narrative summary.
func (s *Service) RunDigest(ctx context.Context) error {
    report, err := s.CollectReport(ctx, "")
    if err != nil {
        s.log.Error().Err(err).Msg("digest: collect failed")
        return err
    }
    digest := renderDigest(report)
    if s.llm != nil && strings.TrimSpace(s.cfg.OpenAIKey) != "" {
        if summary, err := s.llm.Summarize(ctx, report); err != nil {
            s.log.Error().Err(err).Msg("digest: summarize failed, sending raw digest")
        } else if strings.TrimSpace(summary) != "" {
            digest = escapeMarkdownV2(summary) + "\n\n" + digest
        }
    }
    if s.tg == nil || len(s.cfg.TelegramChatIDs) == 0 {
        s.log.Info().Msg("digest: no telegram chats configured, skipping delivery")
        return nil
    }
    for _, chat := range s.cfg.TelegramChatIDs {
        for _, part := range chunkText(digest, 3800) {
            if err := s.tg.SendMarkdownV2(ctx, chat, part); err != nil {
                s.log.Error().Err(err).Int64("chat", chat).Msg("telegram send failed")
            }
        }
    }
    s.log.Info().Int("issues", len(report.Issues)).Msg("digest delivered")
    return nil
}
