package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Sample is one telemetry reading in the wire format the trips API expects.
type Sample struct {
	Timestamp        time.Time `json:"timestamp"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Speed            float64   `json:"speed"`
	EngineRPM        float64   `json:"engine_rpm"`
	ThrottlePosition float64   `json:"throttle_position"`
	BrakePressure    float64   `json:"brake_pressure"`
	SteeringAngle    float64   `json:"steering_angle"`
}

// TripUpload is the request body for POST /api/trips.
type TripUpload struct {
	TripID        string   `json:"trip_id"`
	VehicleID     string   `json:"vehicle_id"`
	Samples       []Sample `json:"samples"`
	StartLocation Location `json:"start_location"`
	EndLocation   Location `json:"end_location"`
	Route         struct {
		Type string `json:"type"`
	} `json:"route"`
	Weather struct {
		Temperature float64 `json:"temperature"`
		Conditions  string  `json:"conditions"`
	} `json:"weather"`
	Traffic struct {
		Level string `json:"level"`
	} `json:"traffic"`
}

// Profile shapes how a simulated driver behaves second to second.
type Profile struct {
	Name        string
	CruiseSpeed float64 // km/h the driver settles around
	SpeedNoise  float64 // km/h of per-second wobble
	HarshProb   float64 // chance per second of a harsh maneuver
	IdleProb    float64 // chance per second of stopping to idle
	SteerNoise  float64 // degrees of per-second steering wobble
}

var profiles = []Profile{
	{Name: "calm", CruiseSpeed: 45, SpeedNoise: 1.0, HarshProb: 0.002, IdleProb: 0.005, SteerNoise: 3},
	{Name: "normal", CruiseSpeed: 55, SpeedNoise: 2.5, HarshProb: 0.01, IdleProb: 0.008, SteerNoise: 6},
	{Name: "aggressive", CruiseSpeed: 75, SpeedNoise: 5.0, HarshProb: 0.04, IdleProb: 0.003, SteerNoise: 15},
}

// Cities for realistic trip start points
var cities = []Location{
	{Lat: 51.5074, Lon: -0.1278},  // London
	{Lat: 40.7128, Lon: -74.0060}, // New York
	{Lat: 48.8566, Lon: 2.3522},   // Paris
	{Lat: 52.5200, Lon: 13.4050},  // Berlin
	{Lat: 41.0082, Lon: 28.9784},  // Istanbul
	{Lat: 35.6762, Lon: 139.6503}, // Tokyo
	{Lat: 43.6532, Lon: -79.3832}, // Toronto
	{Lat: 19.0760, Lon: 72.8777},  // Mumbai
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

func randomStart() Location {
	return jitterLocation(cities[rand.Intn(len(cities))], 500)
}

// driveState carries the evolving dynamics of one simulated trip.
type driveState struct {
	pos      Location
	speed    float64
	steering float64
	heading  float64 // degrees, 0 = north
	idleLeft int     // seconds of idling remaining
}

// step advances the state by one second under the given profile.
func (s *driveState) step(p Profile) {
	if s.idleLeft > 0 {
		s.idleLeft--
		s.speed = 0
		return
	}

	if rand.Float64() < p.IdleProb {
		// Pull over at a stop for 10-40 seconds, engine running.
		s.idleLeft = 10 + rand.Intn(31)
		s.speed = 0
		return
	}

	switch {
	case rand.Float64() < p.HarshProb:
		// Harsh maneuver: floor it or slam the brakes.
		if rand.Float64() < 0.5 {
			s.speed += 12 + rand.Float64()*6
		} else {
			s.speed -= 14 + rand.Float64()*6
		}
	default:
		// Drift toward cruise speed with profile-shaped noise.
		s.speed += (p.CruiseSpeed-s.speed)*0.1 + (rand.Float64()*2-1)*p.SpeedNoise
	}
	if s.speed < 0 {
		s.speed = 0
	}

	s.steering = (rand.Float64()*2 - 1) * p.SteerNoise
	s.heading += s.steering * 0.2

	// Move along the heading.
	km := s.speed / 3600.0
	s.pos.Lat += km / 111.32 * math.Cos(s.heading*math.Pi/180)
	s.pos.Lon += km / (111.32 * math.Cos(s.pos.Lat*math.Pi/180)) * math.Sin(s.heading*math.Pi/180)
}

func (s *driveState) sample(at time.Time) Sample {
	rpm := 800 + s.speed*35
	if s.speed == 0 {
		rpm = 700
	}
	throttle := s.speed / 1.5
	if throttle > 100 {
		throttle = 100
	}
	return Sample{
		Timestamp:        at,
		Latitude:         s.pos.Lat,
		Longitude:        s.pos.Lon,
		Speed:            s.speed,
		EngineRPM:        rpm,
		ThrottlePosition: throttle,
		BrakePressure:    0,
		SteeringAngle:    s.steering,
	}
}

// generateTrip produces a second-by-second sample stream for one trip.
func generateTrip(p Profile, durationSec int) []Sample {
	state := &driveState{
		pos:     randomStart(),
		speed:   p.CruiseSpeed * 0.5,
		heading: rand.Float64() * 360,
	}
	start := time.Now().Add(-time.Duration(durationSec) * time.Second)

	samples := make([]Sample, 0, durationSec)
	for i := 0; i < durationSec; i++ {
		state.step(p)
		samples = append(samples, state.sample(start.Add(time.Duration(i)*time.Second)))
	}
	return samples
}

var routeTypes = []string{"city", "highway", "mixed", "rural"}
var trafficLevels = []string{"light", "moderate", "heavy", "congested"}
var weatherConditions = []string{"clear", "clear", "clear", "rain", "fog"}

func buildUpload(vehicleID string, p Profile, durationSec int) TripUpload {
	samples := generateTrip(p, durationSec)

	upload := TripUpload{
		TripID:    fmt.Sprintf("sim-%s-%d", vehicleID, time.Now().UnixNano()),
		VehicleID: vehicleID,
		Samples:   samples,
		StartLocation: Location{
			Lat: samples[0].Latitude,
			Lon: samples[0].Longitude,
		},
		EndLocation: Location{
			Lat: samples[len(samples)-1].Latitude,
			Lon: samples[len(samples)-1].Longitude,
		},
	}
	upload.Route.Type = routeTypes[rand.Intn(len(routeTypes))]
	upload.Traffic.Level = trafficLevels[rand.Intn(len(trafficLevels))]
	upload.Weather.Conditions = weatherConditions[rand.Intn(len(weatherConditions))]
	upload.Weather.Temperature = 5 + rand.Float64()*25
	return upload
}

var authToken string

func postTrip(apiURL string, upload TripUpload) error {
	data, err := json.Marshal(upload)
	if err != nil {
		return fmt.Errorf("failed to marshal trip: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/trips", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("trip upload failed with status: %d", resp.StatusCode)
	}
	return nil
}

func simulateDriver(apiURL, vehicleID string, p Profile, tripSec int, pause time.Duration) {
	for {
		upload := buildUpload(vehicleID, p, tripSec)
		if err := postTrip(apiURL, upload); err != nil {
			log.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to upload trip")
		} else {
			log.WithFields(log.Fields{
				"vehicle_id": vehicleID,
				"trip_id":    upload.TripID,
				"profile":    p.Name,
				"samples":    len(upload.Samples),
			}).Info("Uploaded trip")
		}
		time.Sleep(pause)
	}
}

func main() {
	// JWT for the protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	drivers := 3
	if v := os.Getenv("SIM_DRIVERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			drivers = n
		}
	}

	tripSec := 900
	if v := os.Getenv("SIM_TRIP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 60 {
			tripSec = n
		}
	}

	pause := 30 * time.Second
	if v := os.Getenv("SIM_PAUSE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			pause = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"drivers":      drivers,
		"api_url":      apiURL,
		"trip_seconds": tripSec,
	}).Info("Starting drive simulation")

	for i := 0; i < drivers; i++ {
		p := profiles[i%len(profiles)]
		vehicleID := fmt.Sprintf("sim-vehicle-%d", i+1)
		go simulateDriver(apiURL, vehicleID, p, tripSec, pause)
	}

	log.Info("Drive simulation started")
	select {} // Block forever
}
