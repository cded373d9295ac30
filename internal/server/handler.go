// Package server exposes the interview engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TurnHandler is what the chat endpoint needs from the interview engine.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID, userText string) (string, error)
}

type Handler struct {
	engine  TurnHandler
	service string
}

func NewHandler(engine TurnHandler, service string) *Handler {
	return &Handler{engine: engine, service: service}
}

// Router builds the chi router with the chat and health endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Post("/chat", h.handleChat)
	r.Get("/health", h.handleHealth)
	r.Head("/health", h.handleHealth)
	return r
}

type chatRequest struct {
	Mensaje   string `json:"mensaje"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Respuesta string `json:"respuesta"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "cuerpo de la petición inválido")
		return
	}
	if req.Mensaje == "" || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "mensaje y sessionId son obligatorios")
		return
	}

	respuesta, err := h.engine.HandleTurn(r.Context(), req.SessionID, req.Mensaje)
	if err != nil {
		// Generic message only: upstream detail stays in the logs.
		JSON(w, http.StatusInternalServerError, chatResponse{Respuesta: "⚠️ Error al conectar con Marina"})
		return
	}
	JSON(w, http.StatusOK, chatResponse{Respuesta: respuesta})
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	JSON(w, http.StatusOK, healthResponse{
		OK:      true,
		Service: h.service,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
