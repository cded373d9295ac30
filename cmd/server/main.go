package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dminalm/filtro-candidatos/internal/app"
	"github.com/dminalm/filtro-candidatos/internal/config"
	"github.com/dminalm/filtro-candidatos/internal/metrics"
	"github.com/dminalm/filtro-candidatos/internal/scheduler"
	"github.com/dminalm/filtro-candidatos/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
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

	handler := server.NewHandler(engine, cfg.ServiceName)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 %s listening on :%d", cfg.ServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
