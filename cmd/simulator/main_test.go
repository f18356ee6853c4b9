package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateTrip(t *testing.T) {
	samples := generateTrip(profiles[0], 120)

	if len(samples) != 120 {
		t.Fatalf("expected 120 samples, got %d", len(samples))
	}

	for i, s := range samples {
		if s.Speed < 0 {
			t.Errorf("sample %d has negative speed %f", i, s.Speed)
		}
		if s.ThrottlePosition < 0 || s.ThrottlePosition > 100 {
			t.Errorf("sample %d throttle out of range: %f", i, s.ThrottlePosition)
		}
		if i > 0 {
			dt := s.Timestamp.Sub(samples[i-1].Timestamp)
			if dt != time.Second {
				t.Errorf("sample %d not one second after previous: %v", i, dt)
			}
		}
	}
}

func TestDriveState_Idle(t *testing.T) {
	s := &driveState{speed: 40, idleLeft: 3}

	for i := 0; i < 3; i++ {
		s.step(profiles[0])
		if s.speed != 0 {
			t.Errorf("step %d: expected zero speed while idling, got %f", i, s.speed)
		}
	}
	if s.idleLeft != 0 {
		t.Errorf("expected idle counter drained, got %d", s.idleLeft)
	}
}

func TestDriveState_IdleSampleKeepsEngineRunning(t *testing.T) {
	s := &driveState{speed: 0}
	sample := s.sample(time.Now())

	if sample.Speed != 0 {
		t.Errorf("expected zero speed, got %f", sample.Speed)
	}
	if sample.EngineRPM != 700 {
		t.Errorf("expected idle RPM 700, got %f", sample.EngineRPM)
	}
}

func TestBuildUpload(t *testing.T) {
	upload := buildUpload("sim-vehicle-1", profiles[1], 120)

	if upload.VehicleID != "sim-vehicle-1" {
		t.Errorf("unexpected vehicle id %q", upload.VehicleID)
	}
	if upload.TripID == "" {
		t.Error("expected a generated trip id")
	}
	if len(upload.Samples) != 120 {
		t.Fatalf("expected 120 samples, got %d", len(upload.Samples))
	}

	first, last := upload.Samples[0], upload.Samples[len(upload.Samples)-1]
	if upload.StartLocation.Lat != first.Latitude || upload.StartLocation.Lon != first.Longitude {
		t.Error("start location does not match first sample")
	}
	if upload.EndLocation.Lat != last.Latitude || upload.EndLocation.Lon != last.Longitude {
		t.Error("end location does not match last sample")
	}

	validRoute := map[string]bool{"city": true, "highway": true, "mixed": true, "rural": true}
	if !validRoute[upload.Route.Type] {
		t.Errorf("unexpected route type %q", upload.Route.Type)
	}
	validTraffic := map[string]bool{"light": true, "moderate": true, "heavy": true, "congested": true}
	if !validTraffic[upload.Traffic.Level] {
		t.Errorf("unexpected traffic level %q", upload.Traffic.Level)
	}
}

func TestPostTrip_Success(t *testing.T) {
	authToken = "test-token"
	defer func() { authToken = "" }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/trips" {
			t.Errorf("Expected /trips path, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected bearer token, got %s", r.Header.Get("Authorization"))
		}

		var upload TripUpload
		if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
			t.Errorf("Failed to decode upload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	upload := buildUpload("sim-vehicle-1", profiles[0], 60)
	if err := postTrip(server.URL, upload); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPostTrip_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	upload := buildUpload("sim-vehicle-1", profiles[0], 60)
	if err := postTrip(server.URL, upload); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestPostTrip_NetworkError(t *testing.T) {
	upload := buildUpload("sim-vehicle-1", profiles[0], 60)
	if err := postTrip("http://127.0.0.1:1", upload); err == nil {
		t.Error("expected error on unreachable host")
	}
}
