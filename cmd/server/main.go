package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"farm-crm/internal/api"
	"farm-crm/internal/db"
	"farm-crm/internal/importer"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	port := flag.Int("port", 8080, "Port to listen on")
	dbPath := flag.String("db", "", "Path to SQLite database")
	classifierCfg := flag.String("classifier-config", os.Getenv("CLASSIFIER_CONFIG"), "Path to classifier thresholds YAML")
	flag.Parse()

	if *dbPath == "" {
		cwd, _ := os.Getwd()
		*dbPath = filepath.Join(cwd, "data", "farm-crm.db")
	}

	log.Printf("Database path: %s", *dbPath)

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	cfg := importer.DefaultConfig()
	cfg.Classifier, err = importer.LoadClassifierConfig(*classifierCfg)
	if err != nil {
		log.Fatalf("Failed to load classifier config: %v", err)
	}

	router := api.NewRouter(database, cfg)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Starting server on http://localhost%s", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
