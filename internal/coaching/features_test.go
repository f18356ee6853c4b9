package coaching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techdrivex/ecopilot/internal/models"
)

func cityTrip() *models.TripSummary {
	return &models.TripSummary{
		TripID:       "trip-1",
		UserID:       "user-1",
		Distance:     25,
		Duration:     1800,
		AverageSpeed: 50,
		MaxSpeed:     75,
		Route:        models.Route{Type: models.RouteCity},
		Weather:      models.Weather{Temperature: 25, Conditions: "clear"},
		Traffic:      models.Traffic{Level: models.TrafficHeavy},
		DrivingBehavior: models.DrivingBehavior{
			HarshAccelerations: 4,
			HarshBraking:       2,
			HarshCornering:     1,
			SpeedingEvents:     0,
			RapidLaneChanges:   1,
			IdleTime:           120,
		},
	}
}

func TestEfficiencyFeatures(t *testing.T) {
	v, err := EfficiencyFeatures(cityTrip())
	assert.NoError(t, err)
	assert.Len(t, v, EfficiencyDims)
	assert.InDelta(t, 0.25, v[0], 1e-9)  // distance / 100
	assert.InDelta(t, 0.5, v[1], 1e-9)   // duration hours
	assert.InDelta(t, 0.5, v[2], 1e-9)   // average speed / 100
	assert.InDelta(t, 0.5, v[3], 1e-9)   // max speed / 150
	assert.InDelta(t, 0.4, v[4], 1e-9)   // harsh accelerations / 10
	assert.InDelta(t, 0.2, v[5], 1e-9)   // harsh braking / 10
	assert.InDelta(t, 0.2, v[6], 1e-9)   // idle time / 600
	assert.Equal(t, 1.0, v[7])           // city indicator
	assert.Equal(t, 0.0, v[8])           // highway indicator
	assert.InDelta(t, 0.5, v[9], 1e-9)   // temperature / 50
}

func TestBehaviorFeatures(t *testing.T) {
	v, err := BehaviorFeatures(cityTrip())
	assert.NoError(t, err)
	assert.Len(t, v, BehaviorDims)
	assert.InDelta(t, 0.4, v[0], 1e-9)
	assert.InDelta(t, 0.2, v[1], 1e-9)
	assert.InDelta(t, 0.1, v[2], 1e-9)
	assert.Equal(t, 0.0, v[3])
	assert.InDelta(t, 0.1, v[4], 1e-9)
	assert.InDelta(t, 0.2, v[5], 1e-9)
	assert.InDelta(t, 0.5, v[6], 1e-9)
	assert.InDelta(t, 0.5, v[7], 1e-9)
}

func TestRouteFeatures(t *testing.T) {
	trip := cityTrip()
	trip.Weather.Conditions = "rain"
	v, err := RouteFeatures(trip)
	assert.NoError(t, err)
	assert.Len(t, v, RouteDims)
	assert.Equal(t, 1.0, v[2]) // heavy traffic
	assert.Equal(t, 0.0, v[3]) // not congested
	assert.Equal(t, 1.0, v[4]) // city route
	assert.Equal(t, 1.0, v[5]) // rain
}

func TestFeatures_NoClamping(t *testing.T) {
	trip := cityTrip()
	trip.Distance = 450
	trip.DrivingBehavior.HarshAccelerations = 25
	v, err := EfficiencyFeatures(trip)
	assert.NoError(t, err)
	assert.Greater(t, v[0], 1.0)
	assert.Greater(t, v[4], 1.0)
}

func TestFeatures_MissingInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.TripSummary)
	}{
		{"zero duration", func(tr *models.TripSummary) { tr.Duration = 0 }},
		{"zero distance", func(tr *models.TripSummary) { tr.Distance = 0 }},
		{"missing route type", func(tr *models.TripSummary) { tr.Route.Type = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := cityTrip()
			tt.mutate(trip)
			for _, extract := range []func(*models.TripSummary) (FeatureVector, error){
				EfficiencyFeatures, BehaviorFeatures, RouteFeatures,
			} {
				_, err := extract(trip)
				assert.True(t, errors.Is(err, ErrMissingFeatureInput))
			}
		})
	}

	_, err := EfficiencyFeatures(nil)
	assert.True(t, errors.Is(err, ErrMissingFeatureInput))
}
