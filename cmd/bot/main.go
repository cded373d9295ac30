package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dminalm/filtro-candidatos/internal/app"
	"github.com/dminalm/filtro-candidatos/internal/config"
	"github.com/dminalm/filtro-candidatos/internal/metrics"
	"github.com/dminalm/filtro-candidatos/internal/scheduler"
	"github.com/dminalm/filtro-candidatos/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required for the telegram transport")
	}

	counters := metrics.New()
	engine, store, err := app.BuildEngine(cfg, counters)
	if err != nil {
		log.Fatalf("failed to build interview engine: %v", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Printf("failed to close session store: %v", cerr)
		}
	}()

	if cfg.DailySummary {
		sched := scheduler.New(cfg.DailySummarySpec, counters, engine.Recorder())
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	bot, err := telegram.New(cfg.TelegramBotToken, engine)
	if err != nil {
		log.Fatalf("failed to create telegram bot: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	bot.Start(ctx)
}
