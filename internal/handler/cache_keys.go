package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matchpoint/court-reservation/internal/config"
	"github.com/matchpoint/court-reservation/internal/middleware"
	"github.com/matchpoint/court-reservation/internal/timerange"
)

// invalidateCourtCache drops the cached public responses a write just
// made stale: the court list, the court detail, and the availability
// view for each given date.  Changes without a known date (slot catalog
// edits, maintenance windows) fall back to the cache TTL backstop.
func invalidateCourtCache(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, courtID uint64, dates ...time.Time) {
	keys := []string{
		middleware.KeyForURI(cfg, "/v1/courts", ""),
		middleware.KeyForURI(cfg, fmt.Sprintf("/v1/courts/%d", courtID), ""),
	}
	availPath := fmt.Sprintf("/v1/courts/%d/availability", courtID)
	for _, d := range dates {
		keys = append(keys, middleware.KeyForURI(cfg, availPath, "date="+d.UTC().Format("2006-01-02")))
	}
	middleware.InvalidateCache(ctx, rdb, cfg, keys...)
}

// bookingDates lists every calendar day a [start, end) range touches.
func bookingDates(start, end time.Time) []time.Time {
	dates := make([]time.Time, 0, 2)
	for day := timerange.Day(start.UTC()).Start; day.Before(end.UTC()); day = day.Add(24 * time.Hour) {
		dates = append(dates, day)
	}
	return dates
}
