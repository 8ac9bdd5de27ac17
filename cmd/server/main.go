package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/lesheydeveloper/consentmd-chat/internal/config"
	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/internal/db"
	httpserver "github.com/lesheydeveloper/consentmd-chat/internal/http"
	"github.com/lesheydeveloper/consentmd-chat/internal/llm"
	"github.com/lesheydeveloper/consentmd-chat/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	baseLog, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	log := baseLog.WithRedaction(cfg.LogRedaction, cfg.LogHashSalt)
	defer log.Sync()

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open database connection
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer dbConn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		log.Fatal("failed to ping database", "error", err)
	}
	if err := db.Migrate(ctx, dbConn); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	log.Info("catalogs loaded",
		"templates", len(core.GetAllTemplates()),
		"consultation_types", len(core.GetAllConsultationTypes()),
	)

	repo := db.NewRepository(dbConn)
	notifier := db.NewNotifier(dbConn, cfg.DatabaseURL, cfg.NotifyChannel)
	llmClient := llm.NewOpenAIClient(llm.Config{
		APIKey:    cfg.OpenAI.APIKey,
		BaseURL:   cfg.OpenAI.BaseURL,
		ChatModel: cfg.OpenAI.ChatModel,
		NoteModel: cfg.OpenAI.NoteModel,
	})

	srv := httpserver.NewServer(httpserver.Deps{
		Store:       repo,
		Generator:   core.NewNoteGenerator(llmClient),
		Refiner:     core.NewSectionAssistant(llmClient),
		Publisher:   notifier,
		Subscriber:  notifier,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Cancelled on shutdown so open note streams return.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	go func() {
		log.Info("listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
