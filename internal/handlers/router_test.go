package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/techdrivex/ecopilot/internal/auth"
	"github.com/techdrivex/ecopilot/internal/coaching"
	"github.com/techdrivex/ecopilot/internal/db"
	"github.com/techdrivex/ecopilot/internal/middleware"
	"github.com/techdrivex/ecopilot/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testRouter(t *testing.T, mockTrips *MockTripCollection) (*auth.Service, http.Handler) {
	t.Helper()

	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	analyzer := coaching.NewAnalyzer(coaching.DefaultConfig(), mockTrips, nil)
	authHandler := NewAuthHandler(authService, db.UserCollection(new(MockUserCollection)))
	tripHandler := NewTripHandler(analyzer, mockTrips)
	vehicleHandler := NewVehicleHandler(new(MockVehicleCollection))
	goalHandler := NewGoalHandler(new(MockGoalCollection))

	router := NewRouter(authHandler, tripHandler, vehicleHandler, goalHandler,
		middleware.NewAuthMiddleware(authService), middleware.NewRateLimitMiddleware())
	return authService, router
}

func bearerToken(t *testing.T, authService *auth.Service) string {
	t.Helper()
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "driver",
		Role:     models.RoleDriver,
	}
	token, err := authService.GenerateToken(user)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return "Bearer " + token
}

func TestRouter_HealthSkipsAuth(t *testing.T) {
	_, router := testRouter(t, new(MockTripCollection))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_RequiresToken(t *testing.T) {
	_, router := testRouter(t, new(MockTripCollection))

	req := httptest.NewRequest("GET", "/api/trips", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AuthedTripList(t *testing.T) {
	mockTrips := new(MockTripCollection)
	cursor := &fakeTripCursor{trips: []models.TripSummary{*analyzedTrip("trip-1", "user-1")}}
	mockTrips.On("FindTrips", mock.Anything, mock.Anything).Return(cursor, nil)

	authService, router := testRouter(t, mockTrips)

	req := httptest.NewRequest("GET", "/api/trips", nil)
	req.Header.Set("Authorization", bearerToken(t, authService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var trips []models.TripSummary
	if err := json.Unmarshal(w.Body.Bytes(), &trips); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Len(t, trips, 1)
}

func TestRouter_TrendsPathNotCapturedAsTripID(t *testing.T) {
	mockTrips := new(MockTripCollection)
	mockTrips.On("FindRecentTrips", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]models.TripSummary{}, nil)

	authService, router := testRouter(t, mockTrips)

	req := httptest.NewRequest("GET", "/api/trips/trends?metric=eco_score", nil)
	req.Header.Set("Authorization", bearerToken(t, authService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response trendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, "eco_score", response.Metric)
	mockTrips.AssertNotCalled(t, "FindTripByID", mock.Anything, mock.Anything)
}
