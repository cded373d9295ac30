// Package metrics holds in-process counters feeding the daily summary.
package metrics

import "sync/atomic"

type Counters struct {
	Turns               atomic.Uint64
	RecordsExtracted    atomic.Uint64
	ParseErrors         atomic.Uint64
	RowsEligible        atomic.Uint64
	RowsIneligible      atomic.Uint64
	GenerationFailures  atomic.Uint64
	PersistenceFailures atomic.Uint64
}

func New() *Counters { return &Counters{} }

type Snapshot struct {
	Turns               uint64
	RecordsExtracted    uint64
	ParseErrors         uint64
	RowsEligible        uint64
	RowsIneligible      uint64
	GenerationFailures  uint64
	PersistenceFailures uint64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Turns:               c.Turns.Load(),
		RecordsExtracted:    c.RecordsExtracted.Load(),
		ParseErrors:         c.ParseErrors.Load(),
		RowsEligible:        c.RowsEligible.Load(),
		RowsIneligible:      c.RowsIneligible.Load(),
		GenerationFailures:  c.GenerationFailures.Load(),
		PersistenceFailures: c.PersistenceFailures.Load(),
	}
}
