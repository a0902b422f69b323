/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"

    "gopkg.in/yaml.v2"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    JiraBaseURL    string
    JiraPAT        string
    JiraUsername   string
    JiraPassword   string
    JiraProject    string
    JiraJQL        string
    JiraAPIVersion string
    PageSize       int
    HTTPTimeout    time.Duration

    // InitialStatus is the workflow state assumed before an issue's first
    // recorded transition. "To Do" fits stock Jira; other trackers differ.
    InitialStatus string

    DigestCron      string
    TelegramToken   string
    TelegramChatIDs []int64

    OpenAIKey     string
    OpenAIModel   string
    OpenAITimeout time.Duration
}

// fileConfig is the optional YAML config file shape. Environment variables
// always win over file values.
type fileConfig struct {
    JiraBaseURL    string `yaml:"jira_base_url,omitempty"`
    JiraPAT        string `yaml:"jira_pat,omitempty"`
    JiraUsername   string `yaml:"jira_username,omitempty"`
    JiraPassword   string `yaml:"jira_password,omitempty"`
    JiraProject    string `yaml:"jira_project,omitempty"`
    JiraJQL        string `yaml:"jira_jql,omitempty"`
    JiraAPIVersion string `yaml:"jira_api_version,omitempty"`
    InitialStatus  string `yaml:"initial_status,omitempty"`
    DigestCron     string `yaml:"digest_cron,omitempty"`
    TelegramToken  string `yaml:"telegram_token,omitempty"`
    TelegramChats  string `yaml:"telegram_chat_ids,omitempty"`
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func parseInt64s(csv string) []int64 {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]int64, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}

func configFilePath() string {
    if p := strings.TrimSpace(os.Getenv("CONFIG_FILE")); p != "" { return p }
    home, err := os.UserHomeDir()
    if err != nil { return "" }
    return filepath.Join(home, ".jira-analytics.yaml")
}

func loadFile() fileConfig {
    var fc fileConfig
    path := configFilePath()
    if path == "" { return fc }
    data, err := os.ReadFile(path)
    if err != nil { return fc }
    if err := yaml.Unmarshal(data, &fc); err != nil {
        log.Printf("warning: cannot parse config file %s: %v", path, err)
    }
    return fc
}

func Load() Config {
    fc := loadFile()

    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "UTC"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        JiraBaseURL:    getenv("JIRA_BASE_URL", fc.JiraBaseURL),
        JiraPAT:        getenv("JIRA_PAT", fc.JiraPAT),
        JiraUsername:   getenv("JIRA_USERNAME", fc.JiraUsername),
        JiraPassword:   getenv("JIRA_PASSWORD", fc.JiraPassword),
        JiraProject:    getenv("JIRA_PROJECT", fc.JiraProject),
        JiraJQL:        getenv("JIRA_JQL", fc.JiraJQL),
        JiraAPIVersion: getenv("JIRA_API_VERSION", nonEmpty(fc.JiraAPIVersion, "3")),
        PageSize:       atoi("JIRA_PAGE_SIZE", 50),
        HTTPTimeout:    dur("HTTP_TIMEOUT", 15*time.Second),

        InitialStatus: getenv("INITIAL_STATUS", nonEmpty(fc.InitialStatus, "To Do")),

        DigestCron:      getenv("CRON_SPEC", nonEmpty(fc.DigestCron, "0 10 * * FRI")),
        TelegramToken:   getenv("TELEGRAM_BOT_TOKEN", fc.TelegramToken),
        TelegramChatIDs: parseInt64s(getenv("TELEGRAM_CHAT_IDS", fc.TelegramChats)),

        OpenAIKey:     getenv("OPENAI_API_KEY", ""),
        OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4.1-mini"),
        OpenAITimeout: dur("OPENAI_TIMEOUT", 15*time.Second),
    }

    if cfg.PageSize <= 0 || cfg.PageSize > 100 { cfg.PageSize = 50 }

    // set global timezone if available
    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    } else {
        log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
    }

    return cfg
}

func nonEmpty(v, def string) string {
    if strings.TrimSpace(v) == "" { return def }
    return v
}
