package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type turnFunc func(ctx context.Context, sessionID, userText string) (string, error)

func (f turnFunc) HandleTurn(ctx context.Context, sessionID, userText string) (string, error) {
	return f(ctx, sessionID, userText)
}

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	return w
}

func TestChatOK(t *testing.T) {
	engine := turnFunc(func(_ context.Context, sessionID, userText string) (string, error) {
		if sessionID != "s1" || userText != "hola" {
			t.Fatalf("unexpected args: %q %q", sessionID, userText)
		}
		return "¿Qué edad tienes?", nil
	})
	h := NewHandler(engine, "filtro-candidatos")

	w := postChat(t, h, `{"mensaje": "hola", "sessionId": "s1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["respuesta"] != "¿Qué edad tienes?" {
		t.Fatalf("unexpected respuesta: %q", resp["respuesta"])
	}
}

func TestChatMissingFields(t *testing.T) {
	h := NewHandler(turnFunc(func(context.Context, string, string) (string, error) {
		t.Fatalf("engine must not run on invalid input")
		return "", nil
	}), "filtro-candidatos")

	for _, body := range []string{
		`{"mensaje": "hola"}`,
		`{"sessionId": "s1"}`,
		`{}`,
		`no es json`,
	} {
		w := postChat(t, h, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestChatUpstreamFailureIsGeneric(t *testing.T) {
	engine := turnFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("openai: insufficient_quota for key sk-secret")
	})
	h := NewHandler(engine, "filtro-candidatos")

	w := postChat(t, h, `{"mensaje": "hola", "sessionId": "s1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "quota") || strings.Contains(w.Body.String(), "sk-secret") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil, "filtro-candidatos")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("expected no-store cache header, got %q", cc)
	}
	var resp struct {
		OK      bool   `json:"ok"`
		Service string `json:"service"`
		Time    string `json:"time"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Service != "filtro-candidatos" || resp.Time == "" {
		t.Fatalf("unexpected health payload: %+v", resp)
	}

	// HEAD is served too.
	req = httptest.NewRequest(http.MethodHead, "/health", nil)
	w = httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("HEAD /health: expected 200, got %d", w.Code)
	}
}
