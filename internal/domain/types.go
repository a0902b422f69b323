package domain

import "time"

// FieldChange is a single field edit recorded inside a changelog entry.
// Only changes to the status field matter for duration accounting.
type FieldChange struct {
    Field string
    From  string
    To    string
}

// ChangelogEntry is one changelog event. Jira bundles field edits made
// atomically into a single entry sharing one timestamp.
type ChangelogEntry struct {
    At    time.Time
    Items []FieldChange
}

// StatusInterval is a contiguous span during which an issue held one status.
// Intervals for an issue never overlap and cover creation-to-now exactly once.
type StatusInterval struct {
    Status string
    Start  time.Time
    End    time.Time
}

// StatusDurations maps a status name to accumulated wall-clock hours.
type StatusDurations map[string]float64

func (d StatusDurations) TotalHours() float64 {
    sum := 0.0
    for _, h := range d { sum += h }
    return sum
}

type Issue struct {
    Key       string
    Summary   string
    Status    string
    CreatedAt time.Time
}

// IssueReport is the per-issue calculation result. Err carries the failure
// for this issue when fetching or calculating went wrong; Durations and
// Timeline are nil in that case.
type IssueReport struct {
    Issue     Issue
    Durations StatusDurations
    Timeline  []StatusInterval
    Err       string
}

type Report struct {
    GeneratedAt time.Time
    JQL         string
    Issues      []IssueReport
}

// Failed counts issues whose fetch or calculation did not complete.
func (r *Report) Failed() int {
    n := 0
    for _, ir := range r.Issues { if ir.Err != "" { n++ } }
    return n
}
