/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package durations reconstructs an issue's status timeline from its
// changelog and integrates the wall-clock time spent in each workflow status.
package durations

import (
    "errors"
    "fmt"
    "sort"
    "strings"
    "time"

    "github.com/NoSinging/JIRA-Issue-Analytics/internal/domain"
)

// DefaultInitialStatus is the workflow state an issue occupies between
// creation and its first recorded transition. Jira never writes an event for
// it, so it has to be assumed; override per tracker via WithInitialStatus.
const DefaultInitialStatus = "To Do"

var (
    // ErrInvalidInterval reports time moving backward: a changelog entry
    // before the creation instant, or an evaluation instant before the last
    // recorded transition.
    ErrInvalidInterval = errors.New("durations: interval end precedes start")

    // ErrMalformedEntry reports a status-field change without a usable
    // target status.
    ErrMalformedEntry = errors.New("durations: status change without target status")
)

type Option func(*options)

type options struct {
    initialStatus string
}

// WithInitialStatus overrides the assumed pre-transition status name for
// trackers whose workflows do not start in "To Do".
func WithInitialStatus(name string) Option {
    return func(o *options) { if strings.TrimSpace(name) != "" { o.initialStatus = name } }
}

// Compute returns the hours the issue spent in each status between createdAt
// and now, including the open-ended interval from the last transition to now.
// Pure function of its inputs; the returned values sum to now-createdAt hours.
func Compute(changelog []domain.ChangelogEntry, createdAt, now time.Time, opts ...Option) (domain.StatusDurations, error) {
    timeline, err := Timeline(changelog, createdAt, now, opts...)
    if err != nil { return nil, err }
    return Sum(timeline), nil
}

// Sum folds a timeline into per-status hours.
func Sum(timeline []domain.StatusInterval) domain.StatusDurations {
    out := domain.StatusDurations{}
    for _, iv := range timeline {
        out[iv.Status] += iv.End.Sub(iv.Start).Hours()
    }
    return out
}

// Timeline reconstructs the contiguous, non-overlapping status intervals
// covering [createdAt, now] exactly once. The changelog is sorted by
// timestamp before processing rather than trusting the feed's order. The
// running status is carried forward from the previous transition's target;
// fromString is deliberately ignored so entries that misreport the prior
// status cannot skew the bookkeeping.
func Timeline(changelog []domain.ChangelogEntry, createdAt, now time.Time, opts ...Option) ([]domain.StatusInterval, error) {
    o := options{initialStatus: DefaultInitialStatus}
    for _, opt := range opts { opt(&o) }

    if now.Before(createdAt) {
        return nil, fmt.Errorf("%w: evaluation time %s precedes creation %s", ErrInvalidInterval,
            now.Format(time.RFC3339), createdAt.Format(time.RFC3339))
    }

    entries := make([]domain.ChangelogEntry, len(changelog))
    copy(entries, changelog)
    sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.Before(entries[j].At) })

    cur := o.initialStatus
    start := createdAt
    var timeline []domain.StatusInterval
    for _, e := range entries {
        for _, it := range e.Items {
            if !strings.EqualFold(it.Field, "status") { continue }
            if e.At.Before(start) {
                return nil, fmt.Errorf("%w: change at %s precedes %s", ErrInvalidInterval,
                    e.At.Format(time.RFC3339), start.Format(time.RFC3339))
            }
            if strings.TrimSpace(it.To) == "" {
                return nil, fmt.Errorf("%w: change at %s leaving %q", ErrMalformedEntry,
                    e.At.Format(time.RFC3339), cur)
            }
            timeline = append(timeline, domain.StatusInterval{Status: cur, Start: start, End: e.At})
            cur = it.To
            start = e.At
        }
    }
    if now.Before(start) {
        return nil, fmt.Errorf("%w: evaluation time %s precedes last transition %s", ErrInvalidInterval,
            now.Format(time.RFC3339), start.Format(time.RFC3339))
    }
    timeline = append(timeline, domain.StatusInterval{Status: cur, Start: start, End: now})
    return timeline, nil
}
