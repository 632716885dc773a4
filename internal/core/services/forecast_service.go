package services

import (
	"context"
	"sort"

	"mealms-portal/internal/core/domain"
)

// ForecastService turns the raw analytics feed into the view the Overview
// dashboard renders. Aggregation is a pure fold over the feed: it assumes
// nothing about input ordering or deduplication, never mutates employees,
// and recomputes the procurement table on every pass.
type ForecastService struct {
	gateway Gateway
}

// NewForecastService creates a new forecast service
func NewForecastService(gateway Gateway) *ForecastService {
	return &ForecastService{gateway: gateway}
}

// Overview fetches the analytics feed and aggregates it
func (s *ForecastService) Overview(ctx context.Context, bearer string) (*domain.ForecastView, error) {
	feed, err := s.gateway.Analytics(ctx, bearer)
	if err != nil {
		return nil, err
	}

	view := Aggregate(feed.Observations, feed.UserSchedules)
	view.BookingUsersCount = feed.BookingUsersCount
	view.TotalUsers = feed.TotalUsers
	return view, nil
}

// Aggregate builds the forecast view from raw observations and schedules.
// Totals are order-independent; the chart series gets its own deterministic
// ordering by ascending date (breakfast before lunch within a day). Per-user
// schedules pass through with their booking order untouched; the upstream
// decides that ordering, not the aggregator. Zero observations are not an
// error: all totals are 0 and the series is empty.
func Aggregate(observations []domain.BookingObservation, schedules []domain.UserSchedule) *domain.ForecastView {
	view := &domain.ForecastView{
		ChartSeries:   make([]domain.ChartPoint, 0, len(observations)),
		UserSchedules: make([]domain.UserSchedule, len(schedules)),
	}

	for _, obs := range observations {
		switch obs.MealType {
		case domain.MealBreakfast:
			view.BreakfastTotal += obs.TotalBooked
		case domain.MealLunch:
			view.LunchTotal += obs.TotalBooked
		}
		view.ChartSeries = append(view.ChartSeries, domain.ChartPoint{
			Date:        obs.Date,
			MealType:    obs.MealType,
			TotalBooked: obs.TotalBooked,
		})
	}
	view.GrandTotal = view.BreakfastTotal + view.LunchTotal

	// ISO dates sort correctly as strings
	sort.SliceStable(view.ChartSeries, func(i, j int) bool {
		if view.ChartSeries[i].Date != view.ChartSeries[j].Date {
			return view.ChartSeries[i].Date < view.ChartSeries[j].Date
		}
		return view.ChartSeries[i].MealType < view.ChartSeries[j].MealType
	})

	view.Procurement = []domain.ProcurementRow{
		{Label: domain.ProcurementBreakfastLabel, Count: view.BreakfastTotal},
		{Label: domain.ProcurementLunchLabel, Count: view.LunchTotal},
		{Label: domain.ProcurementTotalLabel, Count: view.GrandTotal, IsTotal: true},
	}

	copy(view.UserSchedules, schedules)

	return view
}
