package coaching

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFeatureVector is returned when a scorer receives a vector of the
// wrong length. Callers degrade to a neutral default rather than propagating
// the failure, so coaching feedback never blocks trip completion.
var ErrInvalidFeatureVector = errors.New("invalid feature vector")

// BehaviorCategory is the fixed set of driving-behavior classes.
type BehaviorCategory string

const (
	BehaviorEcoFriendly    BehaviorCategory = "eco_friendly"
	BehaviorModerate       BehaviorCategory = "moderate"
	BehaviorAggressive     BehaviorCategory = "aggressive"
	BehaviorVeryAggressive BehaviorCategory = "very_aggressive"
)

// ScoreResult is a bounded 0-100 score plus the human-readable factors that
// contributed to it.
type ScoreResult struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors,omitempty"`
}

// BehaviorResult is a behavior classification with its confidence.
type BehaviorResult struct {
	Category   BehaviorCategory `json:"category"`
	Confidence float64          `json:"confidence"`
	Factors    []string         `json:"factors,omitempty"`
}

// Neutral defaults used when a scorer is handed a malformed vector.
func neutralScore() ScoreResult {
	return ScoreResult{Score: 50}
}

func neutralBehavior() BehaviorResult {
	return BehaviorResult{Category: BehaviorModerate, Confidence: 0.5}
}

func clampScore(raw float64) int {
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}
	return int(math.Round(raw))
}

// ScoreEfficiency converts an efficiency feature vector into a 0-100 score.
// The score is monotonically non-increasing in the harsh-event counts, idle
// time and max speed dimensions.
func ScoreEfficiency(v FeatureVector) (ScoreResult, error) {
	if len(v) != EfficiencyDims {
		return neutralScore(), fmt.Errorf("%w: want %d dims, got %d", ErrInvalidFeatureVector, EfficiencyDims, len(v))
	}

	raw := 100 -
		20*v[4] - // harsh accelerations
		20*v[5] - // harsh braking
		15*v[6] - // idle time
		15*v[3] - // max speed
		5*v[7] // city driving burns more fuel than the same distance elsewhere

	var factors []string
	if v[4] > 0.5 { // more than 5 harsh accelerations
		factors = append(factors, "High harsh acceleration count")
	}
	if v[5] > 0.5 {
		factors = append(factors, "Frequent harsh braking")
	}
	if v[6] > 0.5 { // more than 5 minutes idling
		factors = append(factors, "Excessive idle time")
	}
	if v[3] > 0.8 { // top speed above 120 km/h
		factors = append(factors, "High top speed")
	}

	return ScoreResult{Score: clampScore(raw), Factors: factors}, nil
}

// behaviorBoundaries are the weighted-sum cutoffs between behavior
// categories, ordered from eco_friendly/moderate up to
// aggressive/very_aggressive.
var behaviorBoundaries = [3]float64{0.25, 0.55, 0.9}

// ClassifyBehavior maps a behavior feature vector to one of the four fixed
// categories by thresholding a weighted sum of the normalized harsh-event
// counts. Ties on a boundary fall toward the more aggressive category.
func ClassifyBehavior(v FeatureVector) (BehaviorResult, error) {
	if len(v) != BehaviorDims {
		return neutralBehavior(), fmt.Errorf("%w: want %d dims, got %d", ErrInvalidFeatureVector, BehaviorDims, len(v))
	}

	weighted := 0.3*v[0] + // harsh accelerations
		0.3*v[1] + // harsh braking
		0.15*v[2] + // harsh cornering
		0.15*v[3] + // speeding events
		0.1*v[4] // rapid lane changes

	var category BehaviorCategory
	switch {
	case weighted >= behaviorBoundaries[2]:
		category = BehaviorVeryAggressive
	case weighted >= behaviorBoundaries[1]:
		category = BehaviorAggressive
	case weighted >= behaviorBoundaries[0]:
		category = BehaviorModerate
	default:
		category = BehaviorEcoFriendly
	}

	// Confidence grows with the margin to the nearest category boundary.
	margin := math.Inf(1)
	for _, b := range behaviorBoundaries {
		if d := math.Abs(weighted - b); d < margin {
			margin = d
		}
	}
	confidence := 0.5 + 2*margin
	if confidence > 1 {
		confidence = 1
	}

	var factors []string
	if v[0] > 0.5 {
		factors = append(factors, "High harsh acceleration count")
	}
	if v[1] > 0.5 {
		factors = append(factors, "Frequent harsh braking")
	}
	if v[3] > 0.3 {
		factors = append(factors, "Repeated speeding")
	}
	if v[4] > 0.3 {
		factors = append(factors, "Rapid lane changes")
	}

	return BehaviorResult{Category: category, Confidence: confidence, Factors: factors}, nil
}

// ScoreRoute converts a route feature vector into a 0-100 route-efficiency
// score, penalizing heavy or congested traffic and long-distance city
// driving.
func ScoreRoute(v FeatureVector) (ScoreResult, error) {
	if len(v) != RouteDims {
		return neutralScore(), fmt.Errorf("%w: want %d dims, got %d", ErrInvalidFeatureVector, RouteDims, len(v))
	}

	raw := 100 -
		20*v[2] - // heavy traffic
		35*v[3] - // congested traffic
		10*v[5] - // rain
		25*v[4]*v[0] // city driving scaled by distance

	var factors []string
	if v[2] > 0 {
		factors = append(factors, "Heavy traffic on route")
	}
	if v[3] > 0 {
		factors = append(factors, "Congested traffic conditions")
	}
	if v[4] > 0 && v[0] > 0.3 {
		factors = append(factors, "Long-distance city driving")
	}

	return ScoreResult{Score: clampScore(raw), Factors: factors}, nil
}
