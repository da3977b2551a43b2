package main

import (
	"context"
	"embed"
	"log"

	"docugen/adapters/pdf"
	"docugen/adapters/postgres"
	"docugen/adapters/word"
	"docugen/app"
	"docugen/internal/config"
	"docugen/internal/errors"
	"docugen/internal/migration"
	"docugen/internal/ops"
	"docugen/internal/output"
	"docugen/internal/staging"
	"docugen/ports"
	"docugen/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed ui/templates/** ui/static/* ui/docs/*
var embeddedFiles embed.FS

// initDatabase initializes the PostgreSQL connection for generation history
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Generation history is optional and needs a database
	var jobs ports.JobRepository
	if appConfig.Database.Enabled() {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		jobs = postgres.NewJobRepository(db)
		log.Println("✅ Generation history enabled")
	} else {
		log.Println("DATABASE_URL not set, generation history disabled")
	}

	// Prepare the output and staging directories
	store, err := output.NewStore(appConfig.Output.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare output directory: %v", err)
	}
	stagingStore := staging.NewStore(appConfig.Uploads.StagingDir)

	// Document layout, optionally overridden by a branding file
	layout, err := config.LoadLayout(appConfig.Branding.File)
	if err != nil {
		log.Fatalf("Failed to load branding layout: %v", err)
	}

	service := app.NewGenerationService(
		[]ports.DocumentRenderer{pdf.NewRenderer(), word.NewRenderer()},
		store, jobs, layout)

	// Start the ops sidecar for health, history API and pprof
	if appConfig.Ops.Enabled {
		opsServer := ops.NewServer(jobs, store)
		go func() {
			log.Printf("🚀 Ops server starting on :%s", appConfig.Ops.Port)
			if err := opsServer.Start(appConfig.Ops.Port); err != nil {
				log.Printf("❌ Ops server failed: %v", err)
			}
		}()
	}

	// Initialize web server
	server := ui.NewServer(embeddedFiles)
	if err := server.Initialize(appConfig, service, store, stagingStore, jobs); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start the server
	log.Printf("🚀 Starting DocuGen server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
