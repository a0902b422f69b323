/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
    "github.com/NoSinging/JIRA-Issue-Analytics/internal/durations"
)

type service interface {
    CollectReport(ctx context.Context, jql string) (*domain.Report, error)
    IssueDurations(ctx context.Context, key string) (*domain.IssueReport, error)
    RunDigest(ctx context.Context) error
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Report collects status durations for the configured (or ?jql=) query.
func (h *Handlers) Report(c *gin.Context) {
    jql := strings.TrimSpace(c.Query("jql"))
    report, err := h.svc.CollectReport(c.Request.Context(), jql)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, report)
}

// IssueDurations computes time-in-status for one issue key.
func (h *Handlers) IssueDurations(c *gin.Context) {
    key := c.Param("key")
    rep, err := h.svc.IssueDurations(c.Request.Context(), key)
    if err != nil {
        status := http.StatusBadGateway
        switch {
        case strings.Contains(err.Error(), "not found"):
            status = http.StatusNotFound
        case errors.Is(err, durations.ErrInvalidInterval), errors.Is(err, durations.ErrMalformedEntry):
            status = http.StatusUnprocessableEntity
        }
        c.JSON(status, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, rep)
}

// DigestNow queues a digest run detached from the HTTP request to avoid
// context cancellation killing the fetch.
func (h *Handlers) DigestNow(c *gin.Context) {
    go func(){ _ = h.svc.RunDigest(context.Background()) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
