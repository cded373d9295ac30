package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorderAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	r, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	events := []Event{
		{Timestamp: time.Now().UTC(), SessionID: "s1", UserMessage: "hola", AssistantResponse: "¿Qué edad tienes?"},
		{Timestamp: time.Now().UTC(), SessionID: "s2", UserMessage: "buenas", AssistantResponse: "¿Qué edad tienes?"},
		{Timestamp: time.Now().UTC(), SessionID: "s1", UserMessage: "30", AssistantResponse: "¿Nacionalidad?"},
	}
	for _, ev := range events {
		if err := r.AppendInteraction(ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := r.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(got))
	}
	if got[0].SessionID != "s1" || got[1].SessionID != "s2" || got[2].UserMessage != "30" {
		t.Fatalf("events out of order: %+v", got)
	}
}
