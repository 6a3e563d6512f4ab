package main

import (
	"log"

	"github.com/joho/godotenv"

	"regdiag/adapters/api"
	"regdiag/internal/config"
	"regdiag/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to wire dependencies: %v", err)
	}

	server := api.NewServer(cfg, c.Evaluation)
	if err := server.Start(); err != nil {
		log.Fatal("Server failed:", err)
	}
}
