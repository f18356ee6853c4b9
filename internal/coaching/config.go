package coaching

// Config holds the thresholds, weights and savings coefficients the coaching
// pipeline runs with. It is constructed once at process start and treated as
// read-only; every function in this package takes it by value.
type Config struct {
	// Sample-to-sample event thresholds used by aggregation.
	HarshAccelThreshold  float64 // km/h gained per second
	HarshBrakeThreshold  float64 // km/h lost per second
	HarshCornerThreshold float64 // steering degrees per second below LaneChangeMinSpeed
	LaneChangeThreshold  float64 // steering degrees per second at or above LaneChangeMinSpeed
	LaneChangeMinSpeed   float64 // km/h
	SpeedingLimit        float64 // km/h
	IdleSpeedCutoff      float64 // km/h, below this the vehicle counts as stopped
	IdleMinRPM           float64 // engine running indicator

	// Fuel estimation, applied when the client did not report consumption.
	BaseConsumption float64 // liters per 100 km
	HarshEventFuelPenalty float64 // fractional consumption increase per harsh event
	CO2PerLiter     float64 // kg CO2 per liter burned

	// Recommendation thresholds over the recent-trip window.
	RecAccelThreshold float64 // average harsh accelerations per trip
	RecSpeedThreshold float64 // average max speed, km/h
	RecIdleThreshold  float64 // average idle time, seconds

	// Linear potential-savings coefficients.
	AccelFuelPerEvent float64 // liters per average harsh acceleration
	AccelCO2PerEvent  float64 // kg per average harsh acceleration
	SpeedFuelPerKmh   float64 // liters per km/h over threshold
	SpeedCO2PerKmh    float64 // kg per km/h over threshold
	IdleFuelPerMinute float64 // liters per minute over threshold
	IdleCO2PerMinute  float64 // kg per minute over threshold
}

// DefaultConfig returns the coaching configuration used in production.
func DefaultConfig() Config {
	return Config{
		HarshAccelThreshold:  9.0,
		HarshBrakeThreshold:  10.0,
		HarshCornerThreshold: 45.0,
		LaneChangeThreshold:  25.0,
		LaneChangeMinSpeed:   60.0,
		SpeedingLimit:        120.0,
		IdleSpeedCutoff:      1.0,
		IdleMinRPM:           400.0,

		BaseConsumption:       7.5,
		HarshEventFuelPenalty: 0.02,
		CO2PerLiter:           2.31,

		RecAccelThreshold: 3.0,
		RecSpeedThreshold: 100.0,
		RecIdleThreshold:  180.0,

		AccelFuelPerEvent: 0.1,
		AccelCO2PerEvent:  0.25,
		SpeedFuelPerKmh:   0.05,
		SpeedCO2PerKmh:    0.12,
		IdleFuelPerMinute: 0.2,
		IdleCO2PerMinute:  0.5,
	}
}
