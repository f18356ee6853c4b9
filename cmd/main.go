package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/techdrivex/ecopilot/internal/auth"
	"github.com/techdrivex/ecopilot/internal/coaching"
	"github.com/techdrivex/ecopilot/internal/db"
	"github.com/techdrivex/ecopilot/internal/handlers"
	"github.com/techdrivex/ecopilot/internal/ingest"
	"github.com/techdrivex/ecopilot/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(envOr("MONGO_DB", "ecopilot"))

	trips := &db.MongoCollection{Collection: database.Collection("trips")}
	vehicles := &db.MongoCollection{Collection: database.Collection("vehicles")}
	goals := &db.MongoCollection{Collection: database.Collection("goals")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	analyzer := coaching.NewAnalyzer(coaching.DefaultConfig(), trips, vehicles)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService, users),
		handlers.NewTripHandler(analyzer, trips),
		handlers.NewVehicleHandler(vehicles),
		handlers.NewGoalHandler(goals),
		middleware.NewAuthMiddleware(authService),
		middleware.NewRateLimitMiddleware(),
	)

	// MQTT ingest is optional; without a broker the API alone accepts trips.
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		collector := ingest.NewCollector(broker, "ecopilot-server", analyzer)
		if err := collector.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start MQTT collector")
		}
		defer collector.Stop()
		log.WithField("broker", broker).Info("MQTT collector started")
	}

	port := envOr("PORT", "8080")
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
