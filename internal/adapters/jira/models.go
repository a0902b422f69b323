/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "fmt"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
)

// Wire shapes for the two endpoints this tool consumes. Only the fields the
// calculator needs are mapped; everything else Jira sends is dropped.

type searchResponse struct {
    StartAt    int           `json:"startAt"`
    MaxResults int           `json:"maxResults"`
    Total      int           `json:"total"`
    Issues     []searchIssue `json:"issues"`
}

type searchIssue struct {
    Key    string `json:"key"`
    Fields struct {
        Summary string `json:"summary"`
        Status  struct {
            Name string `json:"name"`
        } `json:"status"`
        Created string `json:"created"`
    } `json:"fields"`
}

type changelogResponse struct {
    StartAt    int              `json:"startAt"`
    MaxResults int              `json:"maxResults"`
    Total      int              `json:"total"`
    Values     []changelogValue `json:"values"`
}

type changelogValue struct {
    Created string          `json:"created"`
    Items   []changelogItem `json:"items"`
}

type changelogItem struct {
    Field      string `json:"field"`
    FromString string `json:"fromString"`
    ToString   string `json:"toString"`
}

// IssuePage is one page of a search result.
type IssuePage struct {
    Issues     []domain.Issue
    StartAt    int
    MaxResults int
    Total      int
}

// ChangelogPage is one page of an issue's changelog, oldest first as the API
// returns it.
type ChangelogPage struct {
    Entries    []domain.ChangelogEntry
    StartAt    int
    MaxResults int
    Total      int
}

// timeLayouts covers the tracker's timestamp format
// (2024-01-02T15:04:05.000+0330) plus RFC3339 variants some servers emit.
var timeLayouts = []string{
    "2006-01-02T15:04:05.000-0700",
    "2006-01-02T15:04:05-0700",
    time.RFC3339Nano,
    time.RFC3339,
}

func parseTime(s string) (time.Time, error) {
    for _, l := range timeLayouts {
        if t, err := time.Parse(l, s); err == nil { return t, nil }
    }
    return time.Time{}, fmt.Errorf("jira: unparseable timestamp %q", s)
}

func (r searchResponse) toPage() (*IssuePage, error) {
    page := &IssuePage{StartAt: r.StartAt, MaxResults: r.MaxResults, Total: r.Total}
    for _, si := range r.Issues {
        created, err := parseTime(si.Fields.Created)
        if err != nil { return nil, fmt.Errorf("issue %s: %w", si.Key, err) }
        page.Issues = append(page.Issues, domain.Issue{
            Key:       si.Key,
            Summary:   si.Fields.Summary,
            Status:    si.Fields.Status.Name,
            CreatedAt: created,
        })
    }
    return page, nil
}

func (r changelogResponse) toPage() (*ChangelogPage, error) {
    page := &ChangelogPage{StartAt: r.StartAt, MaxResults: r.MaxResults, Total: r.Total}
    for _, v := range r.Values {
        at, err := parseTime(v.Created)
        if err != nil { return nil, err }
        entry := domain.ChangelogEntry{At: at}
        for _, it := range v.Items {
            entry.Items = append(entry.Items, domain.FieldChange{Field: it.Field, From: it.FromString, To: it.ToString})
        }
        page.Entries = append(page.Entries, entry)
    }
    return page, nil
}
