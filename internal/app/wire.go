// Package app wires the interview engine from configuration; shared by
// the HTTP and Telegram entrypoints.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dminalm/filtro-candidatos/internal/config"
	"github.com/dminalm/filtro-candidatos/internal/interview"
	"github.com/dminalm/filtro-candidatos/internal/llm"
	"github.com/dminalm/filtro-candidatos/internal/metrics"
	"github.com/dminalm/filtro-candidatos/internal/session"
	"github.com/dminalm/filtro-candidatos/internal/sheets"
	"github.com/dminalm/filtro-candidatos/internal/storage"
)

// BuildEngine assembles the full turn pipeline: session store, dialogue
// driver with fallback, evaluator and, when Sheets is configured, the
// persistence gateway. The returned store must be closed by the caller.
func BuildEngine(cfg *config.Config, counters *metrics.Counters) (*interview.Engine, session.Store, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	factory := llm.NewFactory(cfg)
	primary, err := factory.CreatePrimary(cfg.LLMProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create primary llm client: %w", err)
	}
	fallback, err := factory.CreateFallback(cfg.FallbackLLMProvider)
	if err != nil {
		log.Printf("⚠️ fallback collaborator unavailable: %v", err)
		fallback = nil
	}
	driver := interview.NewDriver(primary, fallback, cfg.GenerationRetries)

	var evaluator interview.Evaluator
	switch cfg.EligibilityAuthority {
	case config.AuthorityRules:
		evaluator = interview.RuleAuthority{}
	default:
		evaluator = interview.ModelAuthority{}
	}

	var persister interview.Persister
	if cfg.SheetID != "" && cfg.GoogleCredentialsJSON != "" {
		gw, err := sheets.New(context.Background(), []byte(cfg.GoogleCredentialsJSON),
			cfg.SheetID, cfg.EligibleSheet, cfg.IneligibleSheet,
			cfg.DocenteColumn, cfg.PersistenceRetries, store)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init sheets gateway: %w", err)
		}
		persister = gw
	} else {
		log.Println("⚠️ Sheets persistence disabled: SHEET_ID or GOOGLE_CREDENTIALS not set")
	}

	systemPrompt := readSystemPrompt(cfg.SystemPromptPath)
	engine := interview.NewEngine(store, driver, evaluator, persister, systemPrompt, counters)

	if cfg.LogFilePath != "" {
		rec, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			engine.SetRecorder(rec)
		}
	}
	return engine, store, nil
}

func buildStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionSQLite:
		return session.NewSQLiteStore(cfg.SessionDBPath)
	default:
		return session.NewMemoryStore(), nil
	}
}

func readSystemPrompt(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ failed to read system prompt from %s: %v", path, err)
		return ""
	}
	return strings.TrimSpace(string(b))
}
