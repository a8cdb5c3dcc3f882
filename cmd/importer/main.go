package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"farm-crm/internal/db"
	"farm-crm/internal/importer"
)

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database")
	csvPath := flag.String("csv", "", "Path to property export CSV (required)")
	farm := flag.String("farm", "", "Farm name to link imported parcels into")
	agent := flag.String("agent", "", "Agent the farm belongs to")
	classifierCfg := flag.String("classifier-config", "", "Path to classifier thresholds YAML")
	workers := flag.Int("workers", 4, "Number of normalization workers")
	geocode := flag.Bool("geocode", false, "Geocode records missing coordinates (slow, 1 req/s)")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("-csv is required")
	}
	if *farm != "" && *agent == "" {
		log.Fatal("-farm requires -agent")
	}

	if *dbPath == "" {
		cwd, _ := os.Getwd()
		*dbPath = filepath.Join(cwd, "data", "farm-crm.db")
	}

	log.Printf("Using database: %s", *dbPath)

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	cfg := importer.DefaultConfig()
	cfg.Workers = *workers
	cfg.Geocode = *geocode
	cfg.Classifier, err = importer.LoadClassifierConfig(*classifierCfg)
	if err != nil {
		log.Fatalf("Failed to load classifier config: %v", err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV: %v", err)
	}
	defer file.Close()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	log.Printf("Importing %s...", *csvPath)
	startTime := time.Now()

	imp := importer.New(database, cfg)
	summary, _, err := imp.Run(ctx, file, *farm, *agent)
	if err != nil {
		log.Printf("Import failed: %v", err)
		log.Printf("Committed before failure: %d created, %d updated", summary.Created, summary.Updated)
		os.Exit(1)
	}

	log.Printf("Import completed in %s", time.Since(startTime))
}
