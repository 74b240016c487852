package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/splitbill/internal/analytics"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// AnalyticsService computes spend summaries. It only reads.
type AnalyticsService struct {
	store  storage.BillStore
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates an AnalyticsService that uses the wall clock
// for "today".
func NewAnalyticsService(store storage.BillStore, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, logger: orDefault(logger), now: time.Now}
}

// WithClock replaces the clock that anchors the window.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Summary returns category and period totals of the user's bills inside the
// window named by activeFilter (week, month or year; month when empty).
func (s *AnalyticsService) Summary(ctx context.Context, userID int64, activeFilter string) (*analytics.Summary, error) {
	if userID <= 0 {
		return nil, invalid("User ID is required")
	}

	window, err := analytics.ParseWindow(activeFilter)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	today := models.DateOf(s.now())
	bills, err := s.store.ListBillsForAnalytics(ctx, storage.BillFilter{
		UserID: userID,
		Since:  window.LowerBound(today),
	})
	if err != nil {
		s.logger.Error("Analytics failed", "user_id", userID, "window", window, "error", err)
		return nil, err
	}

	summary := analytics.Summarize(window, today, bills)
	s.logger.Debug("Analytics computed", "user_id", userID, "window", window, "bills", len(bills))
	return summary, nil
}
