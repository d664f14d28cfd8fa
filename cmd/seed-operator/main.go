package main

import (
	"log"
	"os"

	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/database"
	"github.com/playpool/cuebot/internal/operators"
)

func main() {
	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Seed operator account
	username := os.Getenv("OPERATOR_USERNAME")
	if username == "" {
		username = "operator"
		log.Printf("Using default operator username: %s", username)
	}

	password := os.Getenv("OPERATOR_PASSWORD")
	if password == "" {
		password = "change-me-in-production"
		log.Printf("WARNING: Using default operator password. Set OPERATOR_PASSWORD env var in production!")
	}

	if err := operators.UpsertOperator(db, username, password); err != nil {
		log.Fatalf("Failed to create operator account: %v", err)
	}

	log.Printf("✓ Operator account created/updated successfully")
	log.Printf("  Username: %s", username)
	log.Println("\nYou can now login at POST /api/v1/auth/login")
}
