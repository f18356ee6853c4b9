package coaching

import (
	"errors"
	"fmt"
	"math"

	"github.com/techdrivex/ecopilot/internal/models"
)

// ErrInvalidTripData is returned when a trip cannot be aggregated because
// its telemetry is empty or its time boundaries are malformed. The caller
// must not persist a partial trip.
var ErrInvalidTripData = errors.New("invalid trip data")

// TripMeta carries the trip boundary metadata supplied by the collecting
// client alongside the telemetry samples.
type TripMeta struct {
	TripID        string
	UserID        string
	VehicleID     string
	StartLocation models.Location
	EndLocation   models.Location
	Route         models.Route
	Weather       models.Weather
	Traffic       models.Traffic
	DistanceKm    float64 // optional, overrides the geo-delta accumulation when > 0
	FuelConsumed  float64 // liters, optional; estimated when zero
}

// Aggregate folds an ordered sequence of telemetry samples plus trip
// metadata into a finalized TripSummary. The eco score is not set here; the
// scoring engine attaches it before persistence.
func Aggregate(cfg Config, samples []models.TelemetrySample, meta TripMeta) (*models.TripSummary, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ErrInvalidTripData)
	}

	start := samples[0].Timestamp
	end := samples[len(samples)-1].Timestamp
	duration := end.Sub(start).Seconds()
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %.0fs", ErrInvalidTripData, duration)
	}

	var behavior models.DrivingBehavior
	var distance float64
	maxSpeed := samples[0].Speed

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if cur.Speed > maxSpeed {
			maxSpeed = cur.Speed
		}

		dt := cur.Timestamp.Sub(prev.Timestamp).Seconds()
		if dt <= 0 {
			continue // out-of-order or duplicate timestamp
		}

		distance += haversineKm(prev.Location(), cur.Location())

		accel := (cur.Speed - prev.Speed) / dt
		if accel > cfg.HarshAccelThreshold {
			behavior.HarshAccelerations++
		}
		if -accel > cfg.HarshBrakeThreshold {
			behavior.HarshBraking++
		}

		steerRate := math.Abs(cur.SteeringAngle-prev.SteeringAngle) / dt
		if steerRate > cfg.HarshCornerThreshold && cur.Speed < cfg.LaneChangeMinSpeed {
			behavior.HarshCornering++
		} else if steerRate > cfg.LaneChangeThreshold && cur.Speed >= cfg.LaneChangeMinSpeed {
			behavior.RapidLaneChanges++
		}

		// Count the crossing into the speeding band, not every sample in it.
		if cur.Speed > cfg.SpeedingLimit && prev.Speed <= cfg.SpeedingLimit {
			behavior.SpeedingEvents++
		}

		if cur.Speed <= cfg.IdleSpeedCutoff && cur.EngineRPM >= cfg.IdleMinRPM {
			behavior.IdleTime += dt
		}
	}

	if meta.DistanceKm > 0 {
		distance = meta.DistanceKm
	}
	if distance <= 0 {
		return nil, fmt.Errorf("%w: no distance covered", ErrInvalidTripData)
	}

	fuel := meta.FuelConsumed
	if fuel <= 0 {
		harshEvents := behavior.HarshAccelerations + behavior.HarshBraking
		fuel = distance / 100 * cfg.BaseConsumption * (1 + cfg.HarshEventFuelPenalty*float64(harshEvents))
	}

	summary := &models.TripSummary{
		TripID:          meta.TripID,
		UserID:          meta.UserID,
		VehicleID:       meta.VehicleID,
		StartTime:       start,
		EndTime:         end,
		StartLocation:   meta.StartLocation,
		EndLocation:     meta.EndLocation,
		Distance:        distance,
		Duration:        duration,
		AverageSpeed:    distance / (duration / 3600),
		MaxSpeed:        maxSpeed,
		FuelConsumed:    fuel,
		CO2Emissions:    fuel * cfg.CO2PerLiter,
		Route:           meta.Route,
		Weather:         meta.Weather,
		Traffic:         meta.Traffic,
		DrivingBehavior: behavior,
	}
	if fuel > 0 {
		summary.FuelEfficiency = distance / fuel
	}
	return summary, nil
}

// haversineKm returns the great-circle distance between two locations.
func haversineKm(a, b models.Location) float64 {
	const earthRadiusKm = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusKm * c
}
