// Package scheduler logs a daily operations summary of the interview
// pipeline counters and the turn audit trail.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dminalm/filtro-candidatos/internal/metrics"
	"github.com/dminalm/filtro-candidatos/internal/storage"
)

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	counters *metrics.Counters
	recorder storage.Recorder
}

// New builds a summary job. recorder may be nil when the audit trail
// is disabled; the summary then covers counters only.
func New(spec string, counters *metrics.Counters, recorder storage.Recorder) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		spec:     spec,
		counters: counters,
		recorder: recorder,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.report)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("📅 Scheduler started - daily summary at %q UTC", s.spec)
	return nil
}

func (s *Scheduler) report() {
	snap := s.counters.Snapshot()
	line := fmt.Sprintf("turns=%d records=%d parse_errors=%d rows_eligible=%d rows_ineligible=%d generation_failures=%d persistence_failures=%d",
		snap.Turns, snap.RecordsExtracted, snap.ParseErrors,
		snap.RowsEligible, snap.RowsIneligible,
		snap.GenerationFailures, snap.PersistenceFailures)

	if s.recorder != nil {
		events, err := s.recorder.LoadInteractions()
		if err != nil {
			log.Printf("⚠️ Failed to load audit trail for summary: %v", err)
		} else {
			sessions := make(map[string]struct{}, len(events))
			for _, ev := range events {
				sessions[ev.SessionID] = struct{}{}
			}
			line += fmt.Sprintf(" audited_turns=%d audited_sessions=%d", len(events), len(sessions))
		}
	}

	log.Printf("📊 daily summary: %s", line)
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("📅 Scheduler stopped")
}
