package jobs

import (
    "context"
    "sync"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/config"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface { RunDigest(ctx context.Context) error }

type Cron struct {
    cfg config.Config
    log zerolog.Logger
    svc service
    c   *cron.Cron
    mu  sync.Mutex
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
    _, _ = c.AddFunc(cfg.DigestCron, cr.digest)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) digest(){
    if !cr.mu.TryLock() { cr.log.Info().Msg("cron: previous digest still running"); return }
    defer cr.mu.Unlock()
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute); defer cancel()
    cr.log.Info().Msg("cron: status digest")
    if err := cr.svc.RunDigest(ctx); err != nil { cr.log.Error().Err(err).Msg("cron: digest failed") }
}
