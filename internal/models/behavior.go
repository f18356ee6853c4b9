package models

// DrivingBehavior holds the discrete driving-event counts derived for one
// trip. All fields are non-negative.
type DrivingBehavior struct {
	HarshAccelerations int     `json:"harsh_accelerations" bson:"harsh_accelerations"`
	HarshBraking       int     `json:"harsh_braking" bson:"harsh_braking"`
	HarshCornering     int     `json:"harsh_cornering" bson:"harsh_cornering"`
	SpeedingEvents     int     `json:"speeding_events" bson:"speeding_events"`
	RapidLaneChanges   int     `json:"rapid_lane_changes" bson:"rapid_lane_changes"`
	IdleTime           float64 `json:"idle_time" bson:"idle_time"` // seconds
}

// IsValid reports whether every event count and the idle time are
// non-negative.
func (b DrivingBehavior) IsValid() bool {
	return b.HarshAccelerations >= 0 && b.HarshBraking >= 0 &&
		b.HarshCornering >= 0 && b.SpeedingEvents >= 0 &&
		b.RapidLaneChanges >= 0 && b.IdleTime >= 0
}
