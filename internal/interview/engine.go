package interview

import (
	"context"
	"log"
	"time"

	"github.com/dminalm/filtro-candidatos/internal/metrics"
	"github.com/dminalm/filtro-candidatos/internal/session"
	"github.com/dminalm/filtro-candidatos/internal/storage"
)

// Persister is the persistence gateway contract. AppendOnce must be a
// no-op when the (session, category) pair was already saved; it reports
// whether a row was actually appended.
type Persister interface {
	AppendOnce(ctx context.Context, sessionID string, category Category, rec Record) (bool, error)
}

// Engine runs one interview turn end to end. All steps touching one
// session happen under that session's lock, so concurrent retransmits of
// the same sessionId serialize while unrelated sessions proceed freely.
type Engine struct {
	store        session.Store
	driver       *Driver
	evaluator    Evaluator
	persister    Persister
	systemPrompt string
	counters     *metrics.Counters
	recorder     storage.Recorder
}

func NewEngine(store session.Store, driver *Driver, evaluator Evaluator, persister Persister, systemPrompt string, counters *metrics.Counters) *Engine {
	if counters == nil {
		counters = metrics.New()
	}
	return &Engine{
		store:        store,
		driver:       driver,
		evaluator:    evaluator,
		persister:    persister,
		systemPrompt: systemPrompt,
		counters:     counters,
	}
}

// SetRecorder enables the optional turn audit trail.
func (e *Engine) SetRecorder(rec storage.Recorder) {
	e.recorder = rec
}

// Recorder returns the configured audit trail, or nil when disabled.
func (e *Engine) Recorder() storage.Recorder {
	return e.recorder
}

// HandleTurn appends the candidate's utterance, generates the reply,
// extracts and persists the decision record if one is present, and
// returns the prose to show the candidate.
//
// The user utterance is recorded before generation on purpose: if the
// collaborator fails, the answer is not lost and the retried turn
// re-presents it. History then temporarily holds a user utterance with
// no assistant counterpart.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, userText string) (string, error) {
	unlock := e.store.Lock(sessionID)
	defer unlock()

	e.counters.Turns.Add(1)

	if err := e.store.GetOrCreate(sessionID); err != nil {
		return "", err
	}
	if err := e.store.AppendUser(sessionID, userText); err != nil {
		return "", err
	}
	history, err := e.store.History(sessionID)
	if err != nil {
		return "", err
	}

	raw, err := e.driver.Generate(ctx, e.systemPrompt, history)
	if err != nil {
		e.counters.GenerationFailures.Add(1)
		return "", err
	}

	rec, status := ExtractRecord(raw)
	switch status {
	case ExtractFound:
		e.counters.RecordsExtracted.Add(1)
		e.persist(ctx, sessionID, rec)
	case ExtractParseError:
		// Malformed record: swallowed, a later turn retries naturally.
		e.counters.ParseErrors.Add(1)
		log.Printf("⚠️ malformed decision record in session %s, ignoring", sessionID)
	}

	// The raw reply goes into history so the collaborator keeps seeing
	// its own record; the caller only ever gets the stripped prose.
	if err := e.store.AppendAssistant(sessionID, raw); err != nil {
		return "", err
	}

	visible := VisibleText(raw)
	if e.recorder != nil {
		ev := storage.Event{
			Timestamp:         time.Now(),
			SessionID:         sessionID,
			UserMessage:       userText,
			AssistantResponse: visible,
		}
		if err := e.recorder.AppendInteraction(ev); err != nil {
			log.Printf("failed to record interaction: %v", err)
		}
	}
	return visible, nil
}

// persist classifies and appends the record. Persistence is a side
// channel: its failure is counted and logged, never surfaced to the
// candidate.
func (e *Engine) persist(ctx context.Context, sessionID string, rec Record) {
	category := e.evaluator.Classify(rec)
	if e.persister == nil {
		return
	}
	appended, err := e.persister.AppendOnce(ctx, sessionID, category, rec)
	if err != nil {
		e.counters.PersistenceFailures.Add(1)
		log.Printf("❌ failed to persist candidate for session %s: %v", sessionID, err)
		return
	}
	if appended {
		switch category {
		case CategoryEligible:
			e.counters.RowsEligible.Add(1)
		case CategoryIneligible:
			e.counters.RowsIneligible.Add(1)
		}
		log.Printf("✅ candidate saved (%s) for session %s", category, sessionID)
	}
}
