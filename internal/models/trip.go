package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// RouteType classifies the kind of road a trip was mostly driven on.
type RouteType string

const (
	RouteCity    RouteType = "city"
	RouteHighway RouteType = "highway"
	RouteMixed   RouteType = "mixed"
	RouteRural   RouteType = "rural"
)

// TrafficLevel describes observed traffic density during a trip.
type TrafficLevel string

const (
	TrafficLight     TrafficLevel = "light"
	TrafficModerate  TrafficLevel = "moderate"
	TrafficHeavy     TrafficLevel = "heavy"
	TrafficCongested TrafficLevel = "congested"
)

// Route describes the road context of a trip.
type Route struct {
	Type      RouteType  `json:"type" bson:"type"`
	Waypoints []Location `json:"waypoints,omitempty" bson:"waypoints,omitempty"`
}

// Weather captures the conditions a trip was driven in.
type Weather struct {
	Temperature float64 `json:"temperature" bson:"temperature"` // Celsius
	Conditions  string  `json:"conditions" bson:"conditions"`   // "clear", "rain", "snow", "fog"
}

// Traffic captures the traffic context of a trip.
type Traffic struct {
	Level TrafficLevel `json:"level" bson:"level"`
}

// TripSummary is the finalized record of a completed trip. It is created when
// aggregation closes the trip and is never mutated afterwards except to
// append Insight records produced by analysis.
type TripSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID         string             `json:"trip_id" bson:"trip_id"`
	UserID         string             `json:"user_id" bson:"user_id"`
	VehicleID      string             `json:"vehicle_id" bson:"vehicle_id"`
	StartTime      time.Time          `json:"start_time" bson:"start_time"`
	EndTime        time.Time          `json:"end_time" bson:"end_time"`
	StartLocation  Location           `json:"start_location" bson:"start_location"`
	EndLocation    Location           `json:"end_location" bson:"end_location"`
	Distance       float64            `json:"distance" bson:"distance"` // km, > 0
	Duration       float64            `json:"duration" bson:"duration"` // seconds, > 0
	AverageSpeed   float64            `json:"average_speed" bson:"average_speed"` // km/h
	MaxSpeed       float64            `json:"max_speed" bson:"max_speed"`         // km/h
	FuelConsumed   float64            `json:"fuel_consumed" bson:"fuel_consumed"` // liters
	FuelEfficiency float64            `json:"fuel_efficiency" bson:"fuel_efficiency"` // km per liter
	CO2Emissions   float64            `json:"co2_emissions" bson:"co2_emissions"`     // kg
	EcoScore       int                `json:"eco_score" bson:"eco_score"`             // 0-100
	Route          Route              `json:"route" bson:"route"`
	Weather        Weather            `json:"weather" bson:"weather"`
	Traffic        Traffic            `json:"traffic" bson:"traffic"`
	DrivingBehavior DrivingBehavior   `json:"driving_behavior" bson:"driving_behavior"`
	Insights       []Insight          `json:"insights,omitempty" bson:"insights,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
