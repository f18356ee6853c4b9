package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Goal represents a driving improvement target a user is working toward.
type Goal struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Metric      string             `json:"metric" bson:"metric"` // "eco_score", "fuel_efficiency", "harsh_events", "idle_time"
	Description string             `json:"description" bson:"description"`
	Target      float64            `json:"target" bson:"target"`
	Progress    float64            `json:"progress" bson:"progress"`
	Deadline    time.Time          `json:"deadline" bson:"deadline"`
	Status      string             `json:"status" bson:"status"` // "active", "achieved", "missed", "abandoned"
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
