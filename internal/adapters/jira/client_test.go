package jira

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
)

const searchBody = `{
  "startAt": 0, "maxResults": 50, "total": 2,
  "issues": [
    {"key": "TEST-1", "fields": {"summary": "first", "status": {"name": "In Progress"}, "created": "2024-01-01T08:30:00.000+0000"}},
    {"key": "TEST-2", "fields": {"summary": "second", "status": {"name": "To Do"}, "created": "2024-01-02T10:00:00.000+0330"}}
  ]
}`

const changelogBody = `{
  "startAt": 0, "maxResults": 100, "total": 1,
  "values": [
    {"created": "2024-01-01T12:00:00.000+0000", "items": [
      {"field": "status", "fromString": "To Do", "toString": "In Progress"},
      {"field": "assignee", "fromString": "", "toString": "alice"}
    ]}
  ]
}`

func testClient(t *testing.T, baseURL string) *Client {
    t.Helper()
    cfg := config.Config{JiraBaseURL: baseURL, JiraPAT: "pat-token", JiraAPIVersion: "3", HTTPTimeout: 5 * time.Second}
    return NewClient(cfg, zerolog.Nop())
}

func TestSearchIssues_DecodesPage(t *testing.T) {
    var gotAuth, gotPath string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotAuth = r.Header.Get("Authorization")
        gotPath = r.URL.Path
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(searchBody))
    }))
    defer srv.Close()

    page, err := testClient(t, srv.URL).SearchIssues(context.Background(), "project = TEST ORDER BY created DESC", 0, 50)
    require.NoError(t, err)
    assert.Equal(t, "Bearer pat-token", gotAuth)
    assert.Equal(t, "/rest/api/3/search", gotPath)
    require.Len(t, page.Issues, 2)
    assert.Equal(t, "TEST-1", page.Issues[0].Key)
    assert.Equal(t, "In Progress", page.Issues[0].Status)
    assert.Equal(t, 2, page.Total)

    created := page.Issues[0].CreatedAt
    assert.Equal(t, time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), created.UTC())
    _, offset := page.Issues[1].CreatedAt.Zone()
    assert.Equal(t, 3*3600+30*60, offset, "offset from the wire must be preserved")
}

func TestChangelog_DecodesEntries(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/rest/api/3/issue/TEST-1/changelog", r.URL.Path)
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(changelogBody))
    }))
    defer srv.Close()

    page, err := testClient(t, srv.URL).Changelog(context.Background(), "TEST-1", 0, 100)
    require.NoError(t, err)
    require.Len(t, page.Entries, 1)
    require.Len(t, page.Entries[0].Items, 2)
    assert.Equal(t, "status", page.Entries[0].Items[0].Field)
    assert.Equal(t, "In Progress", page.Entries[0].Items[0].To)
    assert.Equal(t, "assignee", page.Entries[0].Items[1].Field)
}

func TestSearchIssues_RetriesOn5xx(t *testing.T) {
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if calls.Add(1) < 3 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        _, _ = w.Write([]byte(searchBody))
    }))
    defer srv.Close()

    page, err := testClient(t, srv.URL).SearchIssues(context.Background(), "project = TEST", 0, 10)
    require.NoError(t, err)
    assert.EqualValues(t, 3, calls.Load())
    assert.Len(t, page.Issues, 2)
}

func TestSearchIssues_NoRetryOn4xx(t *testing.T) {
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls.Add(1)
        w.WriteHeader(http.StatusUnauthorized)
        _, _ = w.Write([]byte(`{"errorMessages":["auth"]}`))
    }))
    defer srv.Close()

    _, err := testClient(t, srv.URL).SearchIssues(context.Background(), "project = TEST", 0, 10)
    require.Error(t, err)
    assert.Contains(t, err.Error(), "status=401")
    assert.EqualValues(t, 1, calls.Load())
}

func TestChangelog_EmptyKeyRejected(t *testing.T) {
    t.Parallel()
    _, err := testClient(t, "https://jira.example.com").Changelog(context.Background(), "", 0, 10)
    assert.Error(t, err)
}

func Test_parseTime_Layouts(t *testing.T) {
    t.Parallel()
    for _, s := range []string{
        "2024-05-01T10:20:30.123456+0200",
        "2024-05-01T10:20:30.000+0000",
        "2024-05-01T10:20:30+0330",
        "2024-05-01T10:20:30Z",
    } {
        _, err := parseTime(s)
        assert.NoError(t, err, s)
    }
    _, err := parseTime("01/05/2024")
    assert.Error(t, err)
}
