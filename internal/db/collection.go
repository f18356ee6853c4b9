package db

import (
	"context"
	"time"

	"github.com/techdrivex/ecopilot/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TripCollection defines the interface for trip summary operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.TripSummary) error
	FindTripByID(ctx context.Context, id string) (*models.TripSummary, error)
	FindTrips(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (TripCursor, error)
	FindRecentTrips(ctx context.Context, userID string, since time.Time, limit int64) ([]models.TripSummary, error)
	AppendInsights(ctx context.Context, tripID string, insights []models.Insight) error
}

// TripCursor defines the interface for trip cursor operations.
type TripCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (VehicleCursor, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// VehicleCursor defines the interface for vehicle cursor operations.
type VehicleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// GoalCollection defines the interface for driving-goal operations.
type GoalCollection interface {
	InsertGoal(ctx context.Context, goal models.Goal) error
	FindGoals(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (GoalCursor, error)
	FindGoalByID(ctx context.Context, id string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, id string, goal models.Goal) error
	DeleteGoal(ctx context.Context, id string) error
}

// GoalCursor defines the interface for goal cursor operations.
type GoalCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
