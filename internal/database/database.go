package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Service exposes the database handle plus the lifecycle operations the
// server needs (health reporting and shutdown).
type Service interface {
	Health() map[string]string
	Close() error
	DB() *mongo.Database
}

type service struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	uri        = os.Getenv("DB_URI")
	name       = os.Getenv("DB_NAME")
	dbInstance *service
)

func New() Service {
	if dbInstance != nil {
		return dbInstance
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	dbInstance = &service{
		client: client,
		db:     client.Database(name),
	}
	return dbInstance
}

func (s *service) DB() *mongo.Database {
	return s.db
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["database"] = name
	return stats
}

func (s *service) Close() error {
	log.Printf("Disconnecting from database: %s", name)
	return s.client.Disconnect(context.Background())
}
