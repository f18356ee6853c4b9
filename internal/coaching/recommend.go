package coaching

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/techdrivex/ecopilot/internal/models"
)

// Recommendation types emitted by the generator.
const (
	RecTypeAcceleration = "acceleration"
	RecTypeSpeed        = "speed"
	RecTypeIdling       = "idling"
)

// Recommendations scans a recent-trip window for threshold breaches and
// emits coaching recommendations in fixed evaluation order: acceleration,
// speed, idling. An empty window yields an empty list.
func Recommendations(cfg Config, window []models.TripSummary) []models.Recommendation {
	recs := []models.Recommendation{}
	if len(window) == 0 {
		return recs
	}

	accels := make([]float64, len(window))
	maxSpeeds := make([]float64, len(window))
	idleTimes := make([]float64, len(window))
	for i, trip := range window {
		accels[i] = float64(trip.DrivingBehavior.HarshAccelerations)
		maxSpeeds[i] = trip.MaxSpeed
		idleTimes[i] = trip.DrivingBehavior.IdleTime
	}
	avgAccel, _ := stats.Mean(accels)
	avgMaxSpeed, _ := stats.Mean(maxSpeeds)
	avgIdle, _ := stats.Mean(idleTimes)

	if avgAccel > cfg.RecAccelThreshold {
		recs = append(recs, models.Recommendation{
			Type:        RecTypeAcceleration,
			Priority:    models.PriorityHigh,
			Title:       "Smooth Acceleration",
			Description: fmt.Sprintf("You average %.1f harsh accelerations per trip. Gradual acceleration saves fuel and reduces wear.", avgAccel),
			Tips: []string{
				"Press the accelerator gently and build speed gradually",
				"Anticipate traffic flow to avoid stop-and-go bursts",
				"Leave earlier so you are not tempted to rush",
			},
			PotentialSavings: models.PotentialSavings{
				Fuel: avgAccel * cfg.AccelFuelPerEvent,
				CO2:  avgAccel * cfg.AccelCO2PerEvent,
			},
		})
	}

	if avgMaxSpeed > cfg.RecSpeedThreshold {
		over := avgMaxSpeed - cfg.RecSpeedThreshold
		recs = append(recs, models.Recommendation{
			Type:        RecTypeSpeed,
			Priority:    models.PriorityMedium,
			Title:       "Speed Management",
			Description: fmt.Sprintf("Your average top speed is %.0f km/h. Fuel consumption climbs sharply above %.0f km/h.", avgMaxSpeed, cfg.RecSpeedThreshold),
			Tips: []string{
				"Use cruise control on highways to hold a steady speed",
				"Keep top speed at or below the posted limit",
			},
			PotentialSavings: models.PotentialSavings{
				Fuel: over * cfg.SpeedFuelPerKmh,
				CO2:  over * cfg.SpeedCO2PerKmh,
			},
		})
	}

	if avgIdle > cfg.RecIdleThreshold {
		minutesOver := (avgIdle - cfg.RecIdleThreshold) / 60
		recs = append(recs, models.Recommendation{
			Type:        RecTypeIdling,
			Priority:    models.PriorityMedium,
			Title:       "Reduce Idle Time",
			Description: fmt.Sprintf("You idle %.0f seconds per trip on average. An idling engine burns fuel while covering no distance.", avgIdle),
			Tips: []string{
				"Switch the engine off when stopped for more than a minute",
				"Avoid idling to warm up the engine; drive gently instead",
			},
			PotentialSavings: models.PotentialSavings{
				Fuel: minutesOver * cfg.IdleFuelPerMinute,
				CO2:  minutesOver * cfg.IdleCO2PerMinute,
			},
		})
	}

	return recs
}
