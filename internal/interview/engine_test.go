package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dminalm/filtro-candidatos/internal/session"
)

// recordingPersister implements the gateway contract against the store's
// idempotency flags, capturing every appended row.
type recordingPersister struct {
	store    session.Store
	appends  int
	category Category
	lastRec  Record
	fail     bool
}

func (p *recordingPersister) AppendOnce(_ context.Context, sessionID string, category Category, rec Record) (bool, error) {
	saved, err := p.store.IsSaved(sessionID, string(category))
	if err != nil {
		return false, err
	}
	if saved {
		return false, nil
	}
	if p.fail {
		return false, errors.New("destination unavailable")
	}
	p.appends++
	p.category = category
	p.lastRec = rec
	if err := p.store.MarkSaved(sessionID, string(category)); err != nil {
		return true, err
	}
	return true, nil
}

func newTestEngine(store session.Store, client *scriptedClient, persister Persister) *Engine {
	driver := NewDriver(client, nil, 0)
	return NewEngine(store, driver, ModelAuthority{}, persister, "eres marina", nil)
}

func TestEngineTurnGrowsHistoryByTwo(t *testing.T) {
	store := session.NewMemoryStore()
	client := &scriptedClient{replies: []string{"¿Qué edad tienes?", "¿Nacionalidad?"}}
	e := newTestEngine(store, client, nil)

	for _, msg := range []string{"hola", "30 años"} {
		if _, err := e.HandleTurn(context.Background(), "s1", msg); err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	}

	h, _ := store.History("s1")
	if len(h) != 4 {
		t.Fatalf("expected 4 history entries after 2 turns, got %d", len(h))
	}
}

func TestEngineFailedGenerationKeepsUserUtterance(t *testing.T) {
	store := session.NewMemoryStore()
	client := &scriptedClient{errs: []error{errors.New("down")}}
	e := newTestEngine(store, client, nil)

	if _, err := e.HandleTurn(context.Background(), "s1", "hola"); !errors.Is(err, ErrUpstreamGeneration) {
		t.Fatalf("expected ErrUpstreamGeneration, got %v", err)
	}

	h, _ := store.History("s1")
	if len(h) != 1 || h[0].Role != "user" {
		t.Fatalf("user utterance must stay recorded without an assistant reply, got %+v", h)
	}
}

func TestEngineIneligibleEndToEnd(t *testing.T) {
	store := session.NewMemoryStore()
	p := &recordingPersister{store: store}
	client := &scriptedClient{replies: []string{
		"Encantada. ¿Nacionalidad?",
		"Anotado. ¿Fumas?",
		"Gracias por tu tiempo 🙏. Nos pondremos en contacto contigo.\n```json\n{\"apto\": false, \"nacionalidad\": \"Rusia\", \"fuma\": \"sí\"}\n```",
	}}
	e := newTestEngine(store, client, p)

	var visible []string
	for _, msg := range []string{"hola", "Rusia", "sí"} {
		out, err := e.HandleTurn(context.Background(), "s1", msg)
		if err != nil {
			t.Fatalf("turn failed: %v", err)
		}
		visible = append(visible, out)
	}

	if p.appends != 1 {
		t.Fatalf("expected exactly one persisted row, got %d", p.appends)
	}
	if p.category != CategoryIneligible {
		t.Fatalf("expected Ineligible destination, got %v", p.category)
	}
	for _, out := range visible {
		if strings.Contains(out, "{") || strings.Contains(out, "apto") {
			t.Fatalf("record leaked into a visible reply: %q", out)
		}
		if strings.Contains(strings.ToLower(out), "no apto") || strings.Contains(out, "rechaz") {
			t.Fatalf("classification leaked into visible prose: %q", out)
		}
	}
}

func TestEngineEligibleSavedExactlyOnce(t *testing.T) {
	store := session.NewMemoryStore()
	p := &recordingPersister{store: store}
	finalReply := "Perfecto 🙌, cumples los requisitos.\n```json\n{\"apto\": true, \"edad\": \"28\", \"telefono\": \"\", \"email\": \"ana@example.com\"}\n```"
	// The eligible record is echoed again on a later turn, the second
	// time malformed; neither may produce a second row.
	client := &scriptedClient{replies: []string{
		finalReply,
		"Ya lo tengo todo, ¡gracias!\n```json\n{\"apto\": true, \"email\": \"ana@example.com\",}\n```",
		finalReply,
	}}
	e := newTestEngine(store, client, p)

	for _, msg := range []string{"ana@example.com", "¿seguro?", "vale"} {
		if _, err := e.HandleTurn(context.Background(), "s2", msg); err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	}

	if p.appends != 1 {
		t.Fatalf("eligible row must be appended exactly once, got %d", p.appends)
	}
	if p.category != CategoryEligible {
		t.Fatalf("expected Eligible destination, got %v", p.category)
	}
	if p.lastRec.Telefono != "" || p.lastRec.Email != "ana@example.com" {
		t.Fatalf("contact fields wrong: %+v", p.lastRec)
	}

	saved, _ := store.IsSaved("s2", string(CategoryEligible))
	if !saved {
		t.Fatalf("Eligible flag must be set after the confirmed append")
	}
}

func TestEnginePersistenceFailureDoesNotAffectReply(t *testing.T) {
	store := session.NewMemoryStore()
	p := &recordingPersister{store: store, fail: true}
	client := &scriptedClient{replies: []string{
		"Listo.\n```json\n{\"apto\": true}\n```",
	}}
	e := newTestEngine(store, client, p)

	out, err := e.HandleTurn(context.Background(), "s1", "fin")
	if err != nil {
		t.Fatalf("persistence failure must not fail the turn: %v", err)
	}
	if out != "Listo." {
		t.Fatalf("unexpected visible reply %q", out)
	}

	// Flag untouched, so a later well-formed record retries the append.
	saved, _ := store.IsSaved("s1", string(CategoryEligible))
	if saved {
		t.Fatalf("flag must only flip after a confirmed append")
	}
}

func TestEngineMalformedRecordIsSilentlyIgnored(t *testing.T) {
	store := session.NewMemoryStore()
	p := &recordingPersister{store: store}
	client := &scriptedClient{replies: []string{
		`Casi terminamos {"apto": true, "edad": } seguimos`,
	}}
	e := newTestEngine(store, client, p)

	out, err := e.HandleTurn(context.Background(), "s1", "vale")
	if err != nil {
		t.Fatalf("parse error must not fail the turn: %v", err)
	}
	if p.appends != 0 {
		t.Fatalf("malformed record must not persist anything")
	}
	if out == "" {
		t.Fatalf("visible text must never be empty")
	}
}
