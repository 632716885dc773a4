package services

import (
	"context"
	"log"
	"time"

	"mealms-portal/internal/config"

	"github.com/robfig/cron/v3"
)

// DigestService logs a provisioning digest every morning so the canteen has
// the day's numbers before service starts. The job needs an upstream
// credential, so it borrows the active manager session and skips quietly
// when nobody is logged in.
type DigestService struct {
	forecast *ForecastService
	sessions *SessionService
	cron     *cron.Cron
	spec     string
}

// NewDigestService creates a new digest service
func NewDigestService(forecast *ForecastService, sessions *SessionService, cfg config.DigestConfig) *DigestService {
	return &DigestService{
		forecast: forecast,
		sessions: sessions,
		cron:     cron.New(),
		spec:     cfg.Spec,
	}
}

// Start schedules the morning digest
func (s *DigestService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 Provisioning digest scheduled (%s)", s.spec)
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *DigestService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Provisioning digest stopped")
}

func (s *DigestService) run() {
	session, ok := s.sessions.Active()
	if !ok {
		log.Println("⚠️ Provisioning digest skipped: no active manager session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	view, err := s.forecast.Overview(ctx, session.UpstreamToken)
	if err != nil {
		log.Printf("❌ Provisioning digest failed: %v", err)
		return
	}

	log.Printf("📊 Provisioning digest: breakfast=%d lunch=%d total=%d (booking users: %d/%d)",
		view.BreakfastTotal, view.LunchTotal, view.GrandTotal,
		view.BookingUsersCount, view.TotalUsers)
}
