/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc any) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(requestID())
    r.Use(func(c *gin.Context){
        c.Next()
        log.Info().
            Str("m", c.Request.Method).
            Str("p", c.FullPath()).
            Int("s", c.Writer.Status()).
            Str("rid", c.GetString(requestIDKey)).
            Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)
    r.GET("/api/report", h.Report)
    r.GET("/api/issues/:key/durations", h.IssueDurations)
    r.POST("/admin/digest", h.DigestNow)

    return r
}

const requestIDKey = "request_id"

// requestID tags every request with an id for log correlation, honoring an
// inbound X-Request-ID when a proxy already assigned one.
func requestID() gin.HandlerFunc {
    return func(c *gin.Context) {
        rid := c.GetHeader("X-Request-ID")
        if rid == "" { rid = uuid.NewString() }
        c.Set(requestIDKey, rid)
        c.Writer.Header().Set("X-Request-ID", rid)
        c.Next()
    }
}
