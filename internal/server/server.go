package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/graph-gophers/graphql-go"

	"github.com/Tomlord1122/tasklist-backend/internal/database"
	"github.com/Tomlord1122/tasklist-backend/internal/graph"
)

type Server struct {
	port     int
	db       database.Service
	schema   *graphql.Schema
	sessions *graph.SessionResolver
}

func NewServer(db database.Service, schema *graphql.Schema, sessions *graph.SessionResolver) *http.Server {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		fmt.Printf("Warning: Invalid PORT environment variable '%s'. Using default 8080. Error: %v", portStr, err)
		port = 8080
	}

	appServer := &Server{
		port:     port,
		db:       db,
		schema:   schema,
		sessions: sessions,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
