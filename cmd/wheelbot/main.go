package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wheelbot/internal/api"
	"wheelbot/internal/bot"
	"wheelbot/internal/config"
	"wheelbot/internal/db"
	"wheelbot/internal/game"
	"wheelbot/internal/ledger"
	"wheelbot/internal/outcome"
	"wheelbot/internal/pipeline"
	"wheelbot/internal/publish"
	"wheelbot/internal/render"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ledger: Postgres when configured, in-memory otherwise
	var lg ledger.Ledger
	if cfg.DatabaseURL != "" {
		database, err := db.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		lg = ledger.NewPG(database)
	} else {
		log.Println("DATABASE_URL not set, using in-memory ledger")
		lg = ledger.NewMemory()
	}

	// Discord session first; the publisher shares it
	discordBot, err := bot.New(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create discord bot: %v", err)
	}

	// Render worker with its ready handshake
	worker := render.NewWorker(cfg.Spin.InitTimeout, cfg.Spin.RenderTimeout, cfg.Spin.MaxArtifactLen)
	if err := worker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start render worker: %v", err)
	}
	defer worker.Stop()

	publisher := publish.NewRateLimited(publish.NewDiscord(discordBot.Session()), cfg.Spin.MinPublishGap)
	orchestrator := pipeline.New(worker, publisher, cfg.Spin.MaxArtifactLen)

	engine := outcome.New(cfg.Edge, outcome.DefaultRNG())
	streaks := outcome.NewTracker()

	svc := game.NewService(lg, engine, streaks, orchestrator, publisher, cfg.Spin, cfg.Edge.VIPBalanceThreshold)
	discordBot.AttachGame(svc)

	// Initialize API server
	apiServer := api.New(cfg, svc)

	// Start Discord bot
	if err := discordBot.Start(); err != nil {
		log.Fatalf("Failed to start discord bot: %v", err)
	}
	defer discordBot.Stop()

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
