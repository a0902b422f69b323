/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package telegram

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/rs/zerolog"
)

// Client delivers digest messages through the Telegram Bot API.
type Client struct {
    token   string
    baseURL string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{ token: cfg.TelegramToken, baseURL: "https://api.telegram.org", http: &http.Client{ Timeout: 10 * time.Second }, log: log }
}

// SendMarkdownV2 sends a message using MarkdownV2 parse mode. Callers are
// responsible for escaping reserved characters.
func (c *Client) SendMarkdownV2(ctx context.Context, chatID int64, text string) error {
    return c.send(ctx, chatID, map[string]any{"chat_id": chatID, "text": text, "parse_mode": "MarkdownV2", "disable_web_page_preview": true})
}

// SendMessagePlain sends without parse_mode to avoid markdown parsing errors.
func (c *Client) SendMessagePlain(ctx context.Context, chatID int64, text string) error {
    return c.send(ctx, chatID, map[string]any{"chat_id": chatID, "text": text, "disable_web_page_preview": true})
}

func (c *Client) send(ctx context.Context, chatID int64, body map[string]any) error {
    if c.token == "" || chatID == 0 { return fmt.Errorf("telegram: missing token or chat id") }
    url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
    b, _ := json.Marshal(body)
    req, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        bodyBytes, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("telegram sendMessage status=%d body=%s", resp.StatusCode, string(bodyBytes))
    }
    return nil
}
