package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/capgif/backend/internal/api"
	"github.com/capgif/backend/internal/auth"
	"github.com/capgif/backend/internal/cleanup"
	"github.com/capgif/backend/internal/config"
	"github.com/capgif/backend/internal/db"
	"github.com/capgif/backend/internal/gifenc"
	"github.com/capgif/backend/internal/job"
	"github.com/capgif/backend/internal/pipeline"
	"github.com/capgif/backend/internal/whisper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Ensure the artifact directories exist
	for _, dir := range []string{cfg.UploadDir, cfg.AudioDir, cfg.GifDir} {
		os.MkdirAll(dir, 0755)
	}

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Transcription engine: warn at boot if misconfigured, but individual
	// requests surface the configuration error themselves.
	transcriber := whisper.New(cfg.WhisperBin, cfg.WhisperModel)
	if err := transcriber.Preflight(); err != nil {
		log.Printf("WARNING: %v", err)
	}

	pipe := pipeline.New(
		transcriber,
		gifenc.NewSynthesizer(cfg.GifDir, cfg.WrapWidth),
		pipeline.Options{
			AudioDir:          cfg.AudioDir,
			MatchTolerance:    cfg.MatchTolerance,
			MaxSegments:       cfg.MaxSegments,
			MinSpeechDuration: cfg.MinSpeechDuration,
		},
	)

	// Async generation queue
	jobQueue := job.NewQueue(database.DB())
	jobQueue.RegisterHandler(job.TypeGenerate, pipe.HandleJob)
	defer jobQueue.Stop()

	// Output retention sweep
	sweeper := cleanup.NewSweeper(cfg.GifDir, cfg.GifRetention)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(cfg, database, jwtService, pipe, jobQueue)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Output dir: %s (retention %s)", cfg.GifDir, cfg.GifRetention)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		jobQueue.Stop()
		sweeper.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
