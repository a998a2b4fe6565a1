package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"leoga-storefront/app"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s", envPath)
		}
	}

	cfg := app.LoadConfig()

	handler, hooks, err := app.Initialize(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + cfg.Port
	log.Printf("Open a view: POST http://localhost:%s/views?kind=fabric", cfg.Port)

	server := app.NewServer(addr, handler, cfg.Timeouts)
	app.RunServerWithShutdown(server, cfg.Timeouts, hooks...)
}
