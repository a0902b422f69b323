/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "strings"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/rs/zerolog"
)

type Client struct {
    baseURL string
    token   string
    basic   string
    user    string
    pass    string
    http    *http.Client
    log     zerolog.Logger
    apiVer  string
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: cfg.JiraBaseURL,
        token:   cfg.JiraPAT,
        basic:   getenvBasic(),
        user:    cfg.JiraUsername,
        pass:    cfg.JiraPassword,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
        apiVer:  cfg.JiraAPIVersion,
    }
}

// getenvBasic reads JIRA_BASIC_AUTH from environment if present (format: user:pass base64), optional
func getenvBasic() string {
    return strings.TrimSpace(os.Getenv("JIRA_BASIC_AUTH"))
}

// SearchIssues fetches one page of issues matching the JQL query.
func (c *Client) SearchIssues(ctx context.Context, jql string, startAt, max int) (*IssuePage, error) {
    if jql == "" { return nil, errors.New("jira: empty jql") }
    q := url.Values{}
    q.Set("jql", jql)
    if startAt > 0 { q.Set("startAt", fmt.Sprint(startAt)) }
    if max > 0 { q.Set("maxResults", fmt.Sprint(max)) }
    q.Set("fields", "summary,status,created")
    u := c.apiURL(c.restPath("search"), q)
    var out searchResponse
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil { return nil, err }
    return out.toPage()
}

// Changelog fetches one page of an issue's changelog.
func (c *Client) Changelog(ctx context.Context, key string, startAt, max int) (*ChangelogPage, error) {
    if key == "" { return nil, errors.New("jira: empty issue key") }
    q := url.Values{}
    if startAt > 0 { q.Set("startAt", fmt.Sprint(startAt)) }
    if max > 0 { q.Set("maxResults", fmt.Sprint(max)) }
    u := c.apiURL(c.restPath("issue/"+url.PathEscape(key)+"/changelog"), q)
    var out changelogResponse
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil { return nil, err }
    return out.toPage()
}

func (c *Client) restPath(suffix string) string {
    ver := c.apiVer
    if ver != "2" { ver = "3" }
    return "/rest/api/" + ver + "/" + suffix
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, body any, out any) error {
    if c.baseURL == "" { return errors.New("jira: empty baseURL") }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        payload = b
    }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        retry, err := c.attempt(ctx, method, u, payload, out)
        if err == nil { return nil }
        if !retry { return err }
        lastErr = err
        // backoff before the next try
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return lastErr
}

// attempt performs a single request. retry is true only for transport
// failures and 429/5xx responses.
func (c *Client) attempt(ctx context.Context, method, u string, payload []byte, out any) (retry bool, err error) {
    var r io.Reader
    if payload != nil { r = strings.NewReader(string(payload)) }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return false, err }
    req.Header.Set("Accept", "application/json")
    if payload != nil { req.Header.Set("Content-Type", "application/json") }
    if c.token != "" {
        req.Header.Set("Authorization", "Bearer "+c.token)
    } else if c.user != "" && c.pass != "" {
        req.SetBasicAuth(c.user, c.pass)
    } else if c.basic != "" {
        req.Header.Set("Authorization", "Basic "+c.basic)
    }
    resp, err := c.http.Do(req)
    if err != nil { return true, err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        err := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
        return resp.StatusCode == 429 || resp.StatusCode >= 500, err
    }
    if err := json.NewDecoder(resp.Body).Decode(out); err != nil { return false, err }
    return false, nil
}
