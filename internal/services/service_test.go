package services

import (
    "context"
    "errors"
    "strings"
    "testing"
    "time"

    "github.com/rs/zerolog"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/adapters/jira"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
)

type fakeJira struct {
    issues     []domain.Issue
    changelogs map[string][]domain.ChangelogEntry
    failKeys   map[string]bool
    searchErr  error
}

func (f *fakeJira) SearchIssues(ctx context.Context, jql string, startAt, max int) (*jira.IssuePage, error) {
    if f.searchErr != nil { return nil, f.searchErr }
    return &jira.IssuePage{Issues: f.issues, Total: len(f.issues), MaxResults: max}, nil
}

func (f *fakeJira) Changelog(ctx context.Context, key string, startAt, max int) (*jira.ChangelogPage, error) {
    if f.failKeys[key] { return nil, errors.New("jira api status=502 body=bad gateway") }
    return &jira.ChangelogPage{Entries: f.changelogs[key]}, nil
}

func testService(jc JiraClient) *Service {
    cfg := config.Config{JiraProject: "TEST", PageSize: 50, InitialStatus: "To Do"}
    s := New(cfg, zerolog.Nop(), jc, nil, nil)
    s.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
    return s
}

func TestCollectReport_PerIssueFailureIsolated(t *testing.T) {
    created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    fj := &fakeJira{
        issues: []domain.Issue{
            {Key: "TEST-1", Summary: "ok", Status: "In Progress", CreatedAt: created},
            {Key: "TEST-2", Summary: "broken", Status: "To Do", CreatedAt: created},
        },
        changelogs: map[string][]domain.ChangelogEntry{
            "TEST-1": {{At: created.Add(10 * time.Hour), Items: []domain.FieldChange{{Field: "status", From: "To Do", To: "In Progress"}}}},
        },
        failKeys: map[string]bool{"TEST-2": true},
    }

    report, err := testService(fj).CollectReport(context.Background(), "")
    if err != nil { t.Fatalf("run must survive a per-issue failure: %v", err) }
    if len(report.Issues) != 2 { t.Fatalf("expected 2 entries, got %d", len(report.Issues)) }

    ok := report.Issues[0]
    if ok.Err != "" { t.Fatalf("healthy issue must compute: %s", ok.Err) }
    if got := ok.Durations["To Do"]; got != 10.0 { t.Fatalf("To Do hours = %v, want 10", got) }
    if got := ok.Durations["In Progress"]; got != 14.0 { t.Fatalf("In Progress hours = %v, want 14", got) }

    bad := report.Issues[1]
    if bad.Err == "" { t.Fatal("failed issue must carry its error") }
    if !strings.Contains(bad.Err, "changelog fetch") { t.Fatalf("error must name the operation: %s", bad.Err) }
    if bad.Durations != nil { t.Fatal("no partial mapping for a failed issue") }
    if report.Failed() != 1 { t.Fatalf("Failed() = %d, want 1", report.Failed()) }
}

func TestCollectReport_ListingFailureFailsRun(t *testing.T) {
    fj := &fakeJira{searchErr: errors.New("jira api status=401 body=denied")}
    _, err := testService(fj).CollectReport(context.Background(), "")
    if err == nil { t.Fatal("listing failure must fail the run, not return an empty report") }
}

func TestCollectReport_DefaultJQL(t *testing.T) {
    fj := &fakeJira{}
    s := testService(fj)
    report, err := s.CollectReport(context.Background(), "")
    if err != nil { t.Fatal(err) }
    if want := "project = TEST ORDER BY created DESC"; report.JQL != want {
        t.Fatalf("JQL = %q, want %q", report.JQL, want)
    }
}

func TestIssueDurations_NotFound(t *testing.T) {
    fj := &fakeJira{}
    _, err := testService(fj).IssueDurations(context.Background(), "TEST-404")
    if err == nil || !strings.Contains(err.Error(), "not found") {
        t.Fatalf("expected not-found error, got %v", err)
    }
}

func TestRenderText_HistoryAndHours(t *testing.T) {
    created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    fj := &fakeJira{
        issues: []domain.Issue{{Key: "TEST-1", Summary: "widget", Status: "In Progress", CreatedAt: created}},
        changelogs: map[string][]domain.ChangelogEntry{
            "TEST-1": {{At: created.Add(10 * time.Hour), Items: []domain.FieldChange{{Field: "status", From: "To Do", To: "In Progress"}}}},
        },
    }
    report, err := testService(fj).CollectReport(context.Background(), "")
    if err != nil { t.Fatal(err) }

    out := RenderText(report)
    for _, want := range []string{
        "TEST-1: widget",
        "None → To Do",
        "To Do → In Progress",
        "To Do: 10.00 hours",
        "In Progress: 14.00 hours",
    } {
        if !strings.Contains(out, want) { t.Fatalf("rendered text missing %q:\n%s", want, out) }
    }
}

func TestChunkText_BreaksOnLineBoundaries(t *testing.T) {
    in := "aaa\nbbb\nccc"
    got := chunkText(in, 7)
    if len(got) != 2 { t.Fatalf("expected 2 chunks, got %d: %#v", len(got), got) }
    if got[0] != "aaa\nbbb" || got[1] != "ccc" { t.Fatalf("unexpected chunks: %#v", got) }
}

func TestChunkText_HardSplitsOversizedLine(t *testing.T) {
    in := strings.Repeat("x", 10)
    got := chunkText(in, 4)
    if len(got) != 3 { t.Fatalf("expected 3 chunks, got %#v", got) }
    for _, c := range got[:2] { if len(c) != 4 { t.Fatalf("chunk too long: %#v", got) } }
}

func TestEscapeMarkdownV2(t *testing.T) {
    got := escapeMarkdownV2("a.b-c!")
    if got != "a\\.b\\-c\\!" { t.Fatalf("unexpected escape: %q", got) }
}
