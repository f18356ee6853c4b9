package coaching

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/techdrivex/ecopilot/internal/models"
)

// ErrUnknownMetric is returned when a trend is requested for a metric the
// analyzer does not track.
var ErrUnknownMetric = errors.New("unknown trend metric")

// Window bounds for recommendation generation.
const (
	recentTripLimit  = 10
	recentTripWindow = 7 * 24 * time.Hour
)

// TripStore is the persistence collaborator the analyzer works against.
type TripStore interface {
	InsertTrip(ctx context.Context, trip models.TripSummary) error
	FindTripByID(ctx context.Context, id string) (*models.TripSummary, error)
	FindRecentTrips(ctx context.Context, userID string, since time.Time, limit int64) ([]models.TripSummary, error)
	AppendInsights(ctx context.Context, tripID string, insights []models.Insight) error
}

// VehicleLookup optionally enriches recommendations with vehicle data. The
// analyzer works without it and falls back to generic tips.
type VehicleLookup interface {
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// AnalysisResult is the payload returned for one analysis request.
type AnalysisResult struct {
	Efficiency      ScoreResult             `json:"efficiency"`
	Behavior        BehaviorResult          `json:"behavior"`
	Route           ScoreResult             `json:"route"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// Analyzer runs the coaching pipeline for one trip at a time. It holds no
// mutable state; concurrent analysis requests are independent.
type Analyzer struct {
	cfg      Config
	trips    TripStore
	vehicles VehicleLookup
}

// NewAnalyzer creates an analyzer. vehicles may be nil.
func NewAnalyzer(cfg Config, trips TripStore, vehicles VehicleLookup) *Analyzer {
	return &Analyzer{cfg: cfg, trips: trips, vehicles: vehicles}
}

// FinalizeTrip aggregates a sample sequence into a TripSummary, attaches the
// eco score and persists the result. Nothing is persisted when aggregation
// fails.
func (a *Analyzer) FinalizeTrip(ctx context.Context, samples []models.TelemetrySample, meta TripMeta) (*models.TripSummary, error) {
	summary, err := Aggregate(a.cfg, samples, meta)
	if err != nil {
		return nil, err
	}

	features, err := EfficiencyFeatures(summary)
	if err != nil {
		return nil, err
	}
	eff, err := ScoreEfficiency(features)
	if err != nil {
		log.WithError(err).WithField("trip_id", summary.TripID).Warn("Eco scoring degraded to neutral default")
	}
	summary.EcoScore = eff.Score

	if err := a.trips.InsertTrip(ctx, *summary); err != nil {
		return nil, fmt.Errorf("failed to persist trip: %w", err)
	}
	return summary, nil
}

// AnalyzeTrip loads a finalized trip and its recent-trip window, scores all
// three facets, generates recommendations and persists them as insights on
// the trip. Scoring failures degrade to neutral defaults; a coaching result
// is produced even when parts of it fall back.
func (a *Analyzer) AnalyzeTrip(ctx context.Context, tripID string) (*AnalysisResult, error) {
	trip, err := a.trips.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", tripID, err)
	}

	result := &AnalysisResult{}

	if v, err := EfficiencyFeatures(trip); err != nil {
		return nil, err
	} else if result.Efficiency, err = ScoreEfficiency(v); err != nil {
		log.WithError(err).WithField("trip_id", tripID).Warn("Efficiency scoring degraded to neutral default")
	}

	if v, err := BehaviorFeatures(trip); err != nil {
		return nil, err
	} else if result.Behavior, err = ClassifyBehavior(v); err != nil {
		log.WithError(err).WithField("trip_id", tripID).Warn("Behavior classification degraded to neutral default")
	}

	if v, err := RouteFeatures(trip); err != nil {
		return nil, err
	} else if result.Route, err = ScoreRoute(v); err != nil {
		log.WithError(err).WithField("trip_id", tripID).Warn("Route scoring degraded to neutral default")
	}

	window := a.recentWindow(ctx, trip)
	result.Recommendations = Recommendations(a.cfg, window)
	a.personalizeTips(ctx, trip.VehicleID, result.Recommendations)

	if len(result.Recommendations) > 0 {
		insights := insightsFrom(result.Recommendations)
		if err := a.trips.AppendInsights(ctx, tripID, insights); err != nil {
			// The coaching result is still reported; persistence is retried
			// on the next analysis request.
			log.WithError(err).WithField("trip_id", tripID).Error("Failed to persist insights")
		}
	}

	return result, nil
}

// MetricTrend loads a user's recent trips and classifies the direction of
// the requested metric, returning the chronological series alongside.
func (a *Analyzer) MetricTrend(ctx context.Context, userID, metric string) (Trend, []float64, error) {
	since := time.Now().Add(-recentTripWindow)
	trips, err := a.trips.FindRecentTrips(ctx, userID, since, recentTripLimit)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load recent trips: %w", err)
	}

	// Store order is newest-first; trend input is oldest-first.
	values := make([]float64, 0, len(trips))
	for i := len(trips) - 1; i >= 0; i-- {
		v, err := metricValue(trips[i], metric)
		if err != nil {
			return "", nil, err
		}
		values = append(values, v)
	}
	return CalculateTrend(values), values, nil
}

func metricValue(trip models.TripSummary, metric string) (float64, error) {
	switch metric {
	case "eco_score":
		return float64(trip.EcoScore), nil
	case "fuel_efficiency":
		return trip.FuelEfficiency, nil
	case "average_speed":
		return trip.AverageSpeed, nil
	case "idle_time":
		return trip.DrivingBehavior.IdleTime, nil
	case "harsh_events":
		b := trip.DrivingBehavior
		return float64(b.HarshAccelerations + b.HarshBraking + b.HarshCornering), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// recentWindow returns the analyzed trip plus up to 10 of the user's most
// recent trips from the last 7 days, excluding duplicates of the trip
// itself.
func (a *Analyzer) recentWindow(ctx context.Context, trip *models.TripSummary) []models.TripSummary {
	window := []models.TripSummary{*trip}
	since := time.Now().Add(-recentTripWindow)
	recent, err := a.trips.FindRecentTrips(ctx, trip.UserID, since, recentTripLimit)
	if err != nil {
		log.WithError(err).WithField("user_id", trip.UserID).Warn("Recent-trip window unavailable, analyzing single trip")
		return window
	}
	for _, r := range recent {
		if r.TripID == trip.TripID {
			continue
		}
		window = append(window, r)
	}
	return window
}

// personalizeTips prepends a fuel-type-specific tip when the vehicle lookup
// is wired and knows the vehicle. Absent lookup leaves the generic tips.
func (a *Analyzer) personalizeTips(ctx context.Context, vehicleID string, recs []models.Recommendation) {
	if a.vehicles == nil || vehicleID == "" || len(recs) == 0 {
		return
	}
	vehicle, err := a.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Debug("Vehicle lookup failed, keeping generic tips")
		return
	}

	var tip string
	switch vehicle.FuelType {
	case "diesel":
		tip = "Diesel engines are most efficient at low RPM; shift up early"
	case "hybrid":
		tip = "Gentle braking lets your hybrid recover more energy"
	case "electric":
		tip = "Smooth driving extends your range through regenerative braking"
	default:
		return
	}
	for i := range recs {
		recs[i].Tips = append(recs[i].Tips, tip)
	}
}

// insightsFrom converts recommendations into append-only insight records.
func insightsFrom(recs []models.Recommendation) []models.Insight {
	now := time.Now()
	insights := make([]models.Insight, len(recs))
	for i, rec := range recs {
		insights[i] = models.Insight{
			Type:        rec.Type,
			Message:     fmt.Sprintf("%s: %s", rec.Title, rec.Description),
			Impact:      models.ImpactNegative,
			FuelSavings: rec.PotentialSavings.Fuel,
			CO2Savings:  rec.PotentialSavings.CO2,
			Timestamp:   now,
		}
	}
	return insights
}
