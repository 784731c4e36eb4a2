package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// OverdueSweeper periodically walks the non-terminal rentals so overdue statuses are
// persisted and alerts fire even on days with no incoming traffic. The per-request
// lazy refresh in ListActiveRentals stays authoritative; the sweep only keeps the
// store from lagging.
type OverdueSweeper struct {
	svc      LibraryService
	schedule string
	cron     *cron.Cron
}

func NewOverdueSweeper(svc LibraryService, schedule string) *OverdueSweeper {
	return &OverdueSweeper{
		svc:      svc,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and launches the scheduler.
func (s *OverdueSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[INFO] OverdueSweeper: started (schedule %q)", s.schedule)
	return nil
}

// Stop halts the scheduler. A sweep already running finishes on its own.
func (s *OverdueSweeper) Stop() {
	s.cron.Stop()
	log.Printf("[INFO] OverdueSweeper: stopped")
}

func (s *OverdueSweeper) sweep() {
	rentals, err := s.svc.ListActiveRentals()
	if err != nil {
		log.Printf("[ERROR] OverdueSweeper: sweep failed: %v", err)
		return
	}
	log.Printf("[INFO] OverdueSweeper: swept %d open rentals", len(rentals))
}
