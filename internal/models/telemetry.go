package models

import (
	"time"
)

// TelemetrySample is a single timestamped reading of vehicle dynamics
// collected while a trip is active. Samples are immutable once recorded and
// belong to the trip session that collected them.
type TelemetrySample struct {
	VehicleID        string    `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
	Latitude         float64   `bson:"latitude" json:"latitude"`
	Longitude        float64   `bson:"longitude" json:"longitude"`
	Speed            float64   `bson:"speed" json:"speed"`                         // km/h
	EngineRPM        float64   `bson:"engine_rpm" json:"engine_rpm"`
	ThrottlePosition float64   `bson:"throttle_position" json:"throttle_position"` // percent, 0-100
	BrakePressure    float64   `bson:"brake_pressure" json:"brake_pressure"`       // percent, 0-100
	SteeringAngle    float64   `bson:"steering_angle" json:"steering_angle"`       // degrees
}

// Location returns the sample's position as a Location value.
func (s TelemetrySample) Location() Location {
	return Location{Lat: s.Latitude, Lon: s.Longitude}
}
