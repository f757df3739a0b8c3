package service

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

// Instants outside years 0001-9999 cannot be written in taskwarrior.TimeLayout.
var (
	minUnix = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxUnix = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC).Unix() - 1
)

// ParseDate converts a raw Unix timestamp column into a UTC instant.
// NULL yields nil. Anything that is not a number, or a number outside years
// 0001-9999, is ErrInvalidDate.
func ParseDate(raw any) (*time.Time, error) {
	var t time.Time

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int64:
		if v < minUnix || v > maxUnix {
			return nil, fmt.Errorf("%w %d: out of range", models.ErrInvalidDate, v)
		}
		t = time.Unix(v, 0).UTC()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w %v", models.ErrInvalidDate, v)
		}
		if v < float64(minUnix) || v >= float64(maxUnix+1) {
			return nil, fmt.Errorf("%w %v: out of range", models.ErrInvalidDate, v)
		}
		t = time.UnixMicro(int64(math.Round(v * 1e6))).UTC()
	default:
		return nil, fmt.Errorf("%w %#v", models.ErrInvalidDate, raw)
	}

	return &t, nil
}

// NormalizeStart moves a start date that precedes the entry date on the same
// calendar day forward to the entry date. Starts on an earlier day are kept.
func NormalizeStart(logger *slog.Logger, title string, entry, start *time.Time) *time.Time {
	if entry == nil || start == nil || !entry.After(*start) {
		return start
	}
	if !sameDay(*entry, *start) {
		return start
	}

	logger.Info("normalized start date",
		"title", title,
		"entry", entry.Format(time.RFC3339),
		"start", start.Format(time.RFC3339),
	)
	adjusted := *entry
	return &adjusted
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
