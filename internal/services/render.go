/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "fmt"
    "strings"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
)

// statusOrder returns the statuses of a report entry in first-visited order,
// so the printed table reads like the issue's history.
func statusOrder(rep domain.IssueReport) []string {
    var order []string
    seen := map[string]bool{}
    for _, iv := range rep.Timeline {
        if seen[iv.Status] { continue }
        seen[iv.Status] = true
        order = append(order, iv.Status)
    }
    return order
}

// RenderText renders a report as the plain-text listing the CLI prints:
// per issue, the status change history followed by hours per status.
func RenderText(r *domain.Report) string {
    b := &strings.Builder{}
    if len(r.Issues) == 0 {
        b.WriteString("No issues found.\n")
        return b.String()
    }
    for _, rep := range r.Issues {
        fmt.Fprintf(b, "- %s: %s (Created: %s, Current Status: %s)\n",
            rep.Issue.Key, rep.Issue.Summary, rep.Issue.CreatedAt.Format(time.RFC3339), rep.Issue.Status)
        if rep.Err != "" {
            fmt.Fprintf(b, "  Error: %s\n\n", rep.Err)
            continue
        }
        b.WriteString("  Status Change History:\n")
        for i, iv := range rep.Timeline {
            if i == 0 {
                fmt.Fprintf(b, "    - %s: None → %s\n", iv.Start.Format(time.RFC3339), iv.Status)
                continue
            }
            fmt.Fprintf(b, "    - %s: %s → %s\n", iv.Start.Format(time.RFC3339), rep.Timeline[i-1].Status, iv.Status)
        }
        b.WriteString("  Time Spent in Each Status:\n")
        for _, status := range statusOrder(rep) {
            fmt.Fprintf(b, "    - %s: %.2f hours\n", status, rep.Durations[status])
        }
        b.WriteString("\n")
    }
    return b.String()
}

// renderDigest builds the MarkdownV2 message delivered to Telegram.
func renderDigest(r *domain.Report) string {
    b := &strings.Builder{}
    fmt.Fprintf(b, "*JIRA Issue Analytics*\n")
    fmt.Fprintf(b, "Time in status as of %s\n", escapeMarkdownV2(r.GeneratedAt.Format("2006-01-02 15:04")))
    fmt.Fprintf(b, "Query: %s\n\n", escapeMarkdownV2(r.JQL))
    for _, rep := range r.Issues {
        if rep.Err != "" {
            fmt.Fprintf(b, "*%s* failed: %s\n", escapeMarkdownV2(rep.Issue.Key), escapeMarkdownV2(rep.Err))
            continue
        }
        parts := make([]string, 0, len(rep.Durations))
        for _, status := range statusOrder(rep) {
            parts = append(parts, fmt.Sprintf("%s %.1fh", status, rep.Durations[status]))
        }
        fmt.Fprintf(b, "*%s* %s\n", escapeMarkdownV2(rep.Issue.Key), escapeMarkdownV2(strings.Join(parts, ", ")))
    }
    if failed := r.Failed(); failed > 0 {
        fmt.Fprintf(b, "\n%s\n", escapeMarkdownV2(fmt.Sprintf("%d of %d issues failed", failed, len(r.Issues))))
    }
    return b.String()
}

// escapeMarkdownV2 escapes Telegram MarkdownV2 special characters.
func escapeMarkdownV2(s string) string {
    repl := []string{"_","\\_","*","\\*","[","\\[","]","\\]","(","\\(",")","\\)","~","\\~","`","\\`",">","\\>","#","\\#","+","\\+","-","\\-","=","\\=","|","\\|","{","\\{","}","\\}",".","\\.","!","\\!"}
    for i := 0; i < len(repl); i += 2 { s = strings.ReplaceAll(s, repl[i], repl[i+1]) }
    return s
}

// chunkText splits text into chunks of up to max runes, attempting to break on line boundaries.
func chunkText(s string, max int) []string {
    if max <= 0 { return []string{s} }
    var chunks []string
    lines := strings.Split(s, "\n")
    cur := ""
    curlen := 0
    for _, ln := range lines {
        rl := len([]rune(ln))
        // If a single line exceeds max, hard-split the line
        if rl > max {
            if curlen > 0 { chunks = append(chunks, cur); cur = ""; curlen = 0 }
            r := []rune(ln)
            for i := 0; i < rl; i += max {
                j := i + max
                if j > rl { j = rl }
                chunks = append(chunks, string(r[i:j]))
            }
            continue
        }
        // account for newline when appending to non-empty cur
        extra := rl
        if curlen > 0 { extra += 1 }
        if curlen+extra > max {
            chunks = append(chunks, cur)
            cur = ln
            curlen = rl
        } else {
            if curlen == 0 { cur = ln; curlen = rl } else { cur += "\n" + ln; curlen += extra }
        }
    }
    if curlen > 0 { chunks = append(chunks, cur) }
    if len(chunks) == 0 { chunks = []string{""} }
    return chunks
}
