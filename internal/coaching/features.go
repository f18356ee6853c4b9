package coaching

import (
	"errors"
	"fmt"

	"github.com/techdrivex/ecopilot/internal/models"
)

// ErrMissingFeatureInput is returned when a TripSummary lacks a field the
// extractor needs. It propagates to the caller; values are never guessed.
var ErrMissingFeatureInput = errors.New("missing feature input")

// FeatureVector is a fixed-length ordered sequence of normalized floats.
// Vectors are computed on demand and never persisted. Divisors are chosen so
// typical values land in [0,1]; outliers may exceed 1 and are not clamped.
type FeatureVector []float64

// Dimensions of the three analysis facets.
const (
	EfficiencyDims = 10
	BehaviorDims   = 8
	RouteDims      = 6
)

func indicator(cond bool) float64 {
	if cond {
		return 1
	}
	return 0
}

func checkTrip(trip *models.TripSummary) error {
	if trip == nil {
		return fmt.Errorf("%w: nil trip", ErrMissingFeatureInput)
	}
	if trip.Duration <= 0 {
		return fmt.Errorf("%w: duration", ErrMissingFeatureInput)
	}
	if trip.Distance <= 0 {
		return fmt.Errorf("%w: distance", ErrMissingFeatureInput)
	}
	if trip.Route.Type == "" {
		return fmt.Errorf("%w: route type", ErrMissingFeatureInput)
	}
	return nil
}

// EfficiencyFeatures maps a TripSummary into the 10-dimension efficiency
// facet vector.
func EfficiencyFeatures(trip *models.TripSummary) (FeatureVector, error) {
	if err := checkTrip(trip); err != nil {
		return nil, err
	}
	b := trip.DrivingBehavior
	return FeatureVector{
		trip.Distance / 100,
		trip.Duration / 3600,
		trip.AverageSpeed / 100,
		trip.MaxSpeed / 150,
		float64(b.HarshAccelerations) / 10,
		float64(b.HarshBraking) / 10,
		b.IdleTime / 600,
		indicator(trip.Route.Type == models.RouteCity),
		indicator(trip.Route.Type == models.RouteHighway),
		trip.Weather.Temperature / 50,
	}, nil
}

// BehaviorFeatures maps a TripSummary into the 8-dimension behavior facet
// vector: the six behavior-event counts plus average and max speed.
func BehaviorFeatures(trip *models.TripSummary) (FeatureVector, error) {
	if err := checkTrip(trip); err != nil {
		return nil, err
	}
	b := trip.DrivingBehavior
	return FeatureVector{
		float64(b.HarshAccelerations) / 10,
		float64(b.HarshBraking) / 10,
		float64(b.HarshCornering) / 10,
		float64(b.SpeedingEvents) / 10,
		float64(b.RapidLaneChanges) / 10,
		b.IdleTime / 600,
		trip.AverageSpeed / 100,
		trip.MaxSpeed / 150,
	}, nil
}

// RouteFeatures maps a TripSummary into the 6-dimension route facet vector.
func RouteFeatures(trip *models.TripSummary) (FeatureVector, error) {
	if err := checkTrip(trip); err != nil {
		return nil, err
	}
	return FeatureVector{
		trip.Distance / 100,
		trip.Duration / 3600,
		indicator(trip.Traffic.Level == models.TrafficHeavy),
		indicator(trip.Traffic.Level == models.TrafficCongested),
		indicator(trip.Route.Type == models.RouteCity),
		indicator(trip.Weather.Conditions == "rain"),
	}, nil
}
