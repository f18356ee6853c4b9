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

// GoalHandler handles driving-goal CRUD requests
type GoalHandler struct {
	goals db.GoalCollection
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goals db.GoalCollection) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func validGoalMetric(metric string) bool {
	switch metric {
	case "eco_score", "fuel_efficiency", "harsh_events", "idle_time":
		return true
	default:
		return false
	}
}

// CreateGoal records a driving improvement target for the current user
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
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

	var goal models.Goal
	if err := json.Unmarshal(body, &goal); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !validGoalMetric(goal.Metric) {
		http.Error(w, "Invalid goal metric", http.StatusBadRequest)
		return
	}
	if goal.Target <= 0 {
		http.Error(w, "target must be positive", http.StatusBadRequest)
		return
	}

	goal.ID = primitive.NewObjectID()
	goal.UserID = claims.UserID
	goal.Status = "active"
	goal.Progress = 0
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	if err := h.goals.InsertGoal(r.Context(), goal); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to create goal")
		http.Error(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(goal)
}

// ListGoals returns the current user's goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"user_id": claims.UserID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.goals.FindGoals(r.Context(), filter)
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to query goals")
		http.Error(w, "Failed to query goals", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	goals := []models.Goal{}
	if err := cursor.All(r.Context(), &goals); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to decode goals")
		http.Error(w, "Failed to decode goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

// UpdateGoal updates progress or status on an existing goal
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	existing, err := h.goals.FindGoalByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if existing.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var update struct {
		Progress *float64 `json:"progress"`
		Status   *string  `json:"status"`
	}
	if err := json.Unmarshal(body, &update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if update.Progress != nil {
		existing.Progress = *update.Progress
	}
	if update.Status != nil {
		existing.Status = *update.Status
	}
	existing.UpdatedAt = time.Now()

	if err := h.goals.UpdateGoal(r.Context(), id, *existing); err != nil {
		log.WithError(err).WithField("goal_id", id).Error("Failed to update goal")
		http.Error(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// DeleteGoal removes a goal
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	existing, err := h.goals.FindGoalByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if existing.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.goals.DeleteGoal(r.Context(), id); err != nil {
		log.WithError(err).WithField("goal_id", id).Error("Failed to delete goal")
		http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
