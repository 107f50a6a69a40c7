package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"subscriber-tracker/internal/bot"
	"subscriber-tracker/internal/config"
	"subscriber-tracker/internal/health"
	"subscriber-tracker/internal/repository"
	"subscriber-tracker/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Timezone, err)
	}

	var store repository.JoinStore
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s := repository.NewSQLiteStore(cfg.DatabaseURL)
		defer s.Close()
		store = s
	case config.BackendSheet:
		store = repository.NewSheetStore(ctx, []byte(cfg.SheetsKey), cfg.SpreadsheetID, loc)
	default:
		store = repository.NewFileStore(cfg.StoragePath)
	}

	reportSvc := service.NewReportService(store, loc)
	digestSvc := service.NewDigestService(store, loc)

	telegramBot, err := bot.New(cfg.TelegramToken, store, reportSvc, digestSvc, &cfg, loc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(loc)
	if cfg.DigestTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.DigestTime, telegramBot.SendDigest); err != nil {
			log.Fatalf("schedule digest: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	healthSrv := health.New(cfg.Port)
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("health server: %v", err)
		}
	}()

	telegramBot.NotifyStartup(ctx)

	log.Println("Subscriber tracker bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("health shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
