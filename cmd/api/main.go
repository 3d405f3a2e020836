package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/tasklist-backend/internal/auth"
	"github.com/Tomlord1122/tasklist-backend/internal/database"
	"github.com/Tomlord1122/tasklist-backend/internal/graph"
	"github.com/Tomlord1122/tasklist-backend/internal/server"
	"github.com/Tomlord1122/tasklist-backend/internal/store"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed.")
		}
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// 1. Database and store gateway
	dbService := database.New()
	documentStore := store.NewMongoStore(dbService.DB())

	// 2. Credential service and session resolver
	authService := auth.NewService(jwtSecret)
	sessions := graph.NewSessionResolver(documentStore, authService)

	// 3. Root resolver and schema; MustParseSchema validates every resolver
	// method against the SDL at startup.
	resolver := graph.NewResolver(documentStore, authService)
	schema := graph.NewSchema(resolver)

	// 4. HTTP server
	apiServer := server.NewServer(dbService, schema, sessions)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err := apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}
