package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/techdrivex/ecopilot/internal/coaching"
	"github.com/techdrivex/ecopilot/internal/db"
	"github.com/techdrivex/ecopilot/internal/middleware"
	"github.com/techdrivex/ecopilot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTripListLimit = 50

// TripUpload is the request body for finalizing a trip from collected
// telemetry samples.
type TripUpload struct {
	TripID        string                   `json:"trip_id"`
	VehicleID     string                   `json:"vehicle_id"`
	Samples       []models.TelemetrySample `json:"samples"`
	StartLocation models.Location          `json:"start_location"`
	EndLocation   models.Location          `json:"end_location"`
	Route         models.Route             `json:"route"`
	Weather       models.Weather           `json:"weather"`
	Traffic       models.Traffic           `json:"traffic"`
	DistanceKm    float64                  `json:"distance_km,omitempty"`
	FuelConsumed  float64                  `json:"fuel_consumed,omitempty"`
}

// TripHandler handles trip upload, retrieval, analysis and trend requests
type TripHandler struct {
	analyzer *coaching.Analyzer
	trips    db.TripCollection
}

// NewTripHandler creates a new trip handler
func NewTripHandler(analyzer *coaching.Analyzer, trips db.TripCollection) *TripHandler {
	return &TripHandler{
		analyzer: analyzer,
		trips:    trips,
	}
}

// CreateTrip finalizes an uploaded sample sequence into a persisted trip
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
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

	var upload TripUpload
	if err := json.Unmarshal(body, &upload); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if upload.TripID == "" {
		http.Error(w, "trip_id is required", http.StatusBadRequest)
		return
	}

	meta := coaching.TripMeta{
		TripID:        upload.TripID,
		UserID:        claims.UserID,
		VehicleID:     upload.VehicleID,
		StartLocation: upload.StartLocation,
		EndLocation:   upload.EndLocation,
		Route:         upload.Route,
		Weather:       upload.Weather,
		Traffic:       upload.Traffic,
		DistanceKm:    upload.DistanceKm,
		FuelConsumed:  upload.FuelConsumed,
	}

	summary, err := h.analyzer.FinalizeTrip(r.Context(), upload.Samples, meta)
	if err != nil {
		if errors.Is(err, coaching.ErrInvalidTripData) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithError(err).WithField("trip_id", upload.TripID).Error("Failed to finalize trip")
		http.Error(w, "Failed to finalize trip", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(summary)
}

// ListTrips returns the current user's trips, newest first
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	limit := int64(defaultTripListLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	opts := options.Find().
		SetSort(bson.M{"end_time": -1}).
		SetLimit(limit)
	cursor, err := h.trips.FindTrips(r.Context(), bson.M{"user_id": claims.UserID}, opts)
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to query trips")
		http.Error(w, "Failed to query trips", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	trips := []models.TripSummary{}
	if err := cursor.All(r.Context(), &trips); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to decode trips")
		http.Error(w, "Failed to decode trips", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trips)
}

// GetTrip returns a single trip by its trip id
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tripID := mux.Vars(r)["id"]
	trip, err := h.trips.FindTripByID(r.Context(), tripID)
	if err != nil {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trip)
}

// AnalyzeTrip runs the coaching pipeline for a finalized trip
func (h *TripHandler) AnalyzeTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tripID := mux.Vars(r)["id"]
	result, err := h.analyzer.AnalyzeTrip(r.Context(), tripID)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			http.Error(w, "Trip not found", http.StatusNotFound)
		case errors.Is(err, coaching.ErrMissingFeatureInput):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.WithError(err).WithField("trip_id", tripID).Error("Trip analysis failed")
			http.Error(w, "Trip analysis failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// trendResponse is the payload for a trend request.
type trendResponse struct {
	Metric string         `json:"metric"`
	Trend  coaching.Trend `json:"trend"`
	Values []float64      `json:"values"`
}

// GetTrend classifies the direction of a metric over the user's recent trips
func (h *TripHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "eco_score"
	}

	trend, values, err := h.analyzer.MetricTrend(r.Context(), claims.UserID, metric)
	if err != nil {
		if errors.Is(err, coaching.ErrUnknownMetric) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithError(err).WithField("user_id", claims.UserID).Error("Trend calculation failed")
		http.Error(w, "Trend calculation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trendResponse{Metric: metric, Trend: trend, Values: values})
}
