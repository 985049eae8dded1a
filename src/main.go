package main

import (
	"context"
	"log"
	"net/http"

	"fintrack-server/src/advisor"
	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	db.InitCache()

	// Completion-service client and advisory pipeline
	completer := advisor.NewOpenAIClient(cfg.AdvisorAPIKey, cfg.AdvisorBaseURL, cfg.AdvisorModel)
	advisorService := advisor.NewPGService(pool, completer)

	// Router
	router := api.NewRouter(pool, advisorService)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
