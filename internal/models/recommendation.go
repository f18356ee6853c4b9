package models

import "time"

// Priority ranks how urgently a coaching recommendation should be acted on.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Impact marks whether an insight reflects positively or negatively on the
// driver.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

// PotentialSavings quantifies what a driver stands to save by following a
// recommendation.
type PotentialSavings struct {
	Fuel float64 `json:"fuel" bson:"fuel"` // liters
	CO2  float64 `json:"co2" bson:"co2"`   // kg
}

// Recommendation is a prioritized, quantified coaching suggestion generated
// per analysis request. It is not persisted as a first-class entity; the
// caller embeds it into a trip's insight list.
type Recommendation struct {
	Type             string           `json:"type"`     // "acceleration", "speed", "idling"
	Priority         Priority         `json:"priority"` // "low", "medium", "high"
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Tips             []string         `json:"tips"`
	PotentialSavings PotentialSavings `json:"potential_savings"`
}

// Insight is a coaching finding appended to a finalized TripSummary.
// Insights are append-only and ordered by creation time.
type Insight struct {
	Type        string    `json:"type" bson:"type"`
	Message     string    `json:"message" bson:"message"`
	Impact      Impact    `json:"impact" bson:"impact"` // "positive", "negative"
	FuelSavings float64   `json:"fuel_savings" bson:"fuel_savings"` // liters
	CO2Savings  float64   `json:"co2_savings" bson:"co2_savings"`   // kg
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
