package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/techdrivex/ecopilot/internal/middleware"
)

// NewRouter wires all API routes behind the authentication and rate-limit
// middleware. Auth endpoints and the health check stay on the middleware
// skip list.
func NewRouter(authHandler *AuthHandler, tripHandler *TripHandler, vehicleHandler *VehicleHandler, goalHandler *GoalHandler, authMW *middleware.AuthMiddleware, rateMW *middleware.RateLimitMiddleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", handleHealth).Methods("GET")

	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/profile", authHandler.GetProfile).Methods("GET")

	// Register the static trends path before the {id} pattern so it is not
	// captured as a trip id.
	r.HandleFunc("/api/trips/trends", tripHandler.GetTrend).Methods("GET")
	r.HandleFunc("/api/trips", tripHandler.CreateTrip).Methods("POST")
	r.HandleFunc("/api/trips", tripHandler.ListTrips).Methods("GET")
	r.HandleFunc("/api/trips/{id}", tripHandler.GetTrip).Methods("GET")
	r.HandleFunc("/api/trips/{id}/analysis", tripHandler.AnalyzeTrip).Methods("POST")

	r.HandleFunc("/api/vehicles", vehicleHandler.CreateVehicle).Methods("POST")
	r.HandleFunc("/api/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")

	r.HandleFunc("/api/goals", goalHandler.CreateGoal).Methods("POST")
	r.HandleFunc("/api/goals", goalHandler.ListGoals).Methods("GET")
	r.HandleFunc("/api/goals/{id}", goalHandler.UpdateGoal).Methods("PUT")
	r.HandleFunc("/api/goals/{id}", goalHandler.DeleteGoal).Methods("DELETE")

	r.Use(mux.MiddlewareFunc(rateMW.RateLimit(100, 60)))
	r.Use(mux.MiddlewareFunc(authMW.Authenticate))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
