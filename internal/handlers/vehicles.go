package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/techdrivex/ecopilot/internal/db"
	"github.com/techdrivex/ecopilot/internal/middleware"
	"github.com/techdrivex/ecopilot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleHandler handles vehicle registration and lookup
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

func validFuelType(fuelType string) bool {
	switch fuelType {
	case "gasoline", "diesel", "hybrid", "electric":
		return true
	default:
		return false
	}
}

// CreateVehicle registers a vehicle for the current user
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if vehicle.Make == "" || vehicle.Model == "" {
		http.Error(w, "make and model are required", http.StatusBadRequest)
		return
	}
	if !validFuelType(vehicle.FuelType) {
		http.Error(w, "Invalid fuel type", http.StatusBadRequest)
		return
	}

	vehicle.ID = primitive.NewObjectID()
	vehicle.UserID = claims.UserID
	if vehicle.Status == "" {
		vehicle.Status = "active"
	}
	vehicle.CreatedAt = time.Now()

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to create vehicle")
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vehicle)
}

// ListVehicles returns the current user's vehicles
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	cursor, err := h.vehicles.FindVehicles(r.Context(), bson.M{"user_id": claims.UserID})
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to query vehicles")
		http.Error(w, "Failed to query vehicles", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	vehicles := []models.Vehicle{}
	if err := cursor.All(r.Context(), &vehicles); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to decode vehicles")
		http.Error(w, "Failed to decode vehicles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

// GetVehicle returns a single vehicle by id
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := mux.Vars(r)["id"]
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}
