package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/techdrivex/ecopilot/internal/coaching"
	"github.com/techdrivex/ecopilot/internal/models"
)

const (
	sampleTopicFilter  = "ecopilot/telemetry/+"
	tripEndTopicFilter = "ecopilot/trips/+/end"

	connectTimeout  = 10 * time.Second
	finalizeTimeout = 30 * time.Second
)

// TripFinalizer closes out a buffered sample session. *coaching.Analyzer
// satisfies it.
type TripFinalizer interface {
	FinalizeTrip(ctx context.Context, samples []models.TelemetrySample, meta coaching.TripMeta) (*models.TripSummary, error)
}

// TripEnd is the message a collecting client publishes when a trip is over.
// It carries the trip boundary metadata; the samples themselves have already
// been streamed on the telemetry topic.
type TripEnd struct {
	TripID        string          `json:"trip_id"`
	UserID        string          `json:"user_id"`
	StartLocation models.Location `json:"start_location"`
	EndLocation   models.Location `json:"end_location"`
	Route         models.Route    `json:"route"`
	Weather       models.Weather  `json:"weather"`
	Traffic       models.Traffic  `json:"traffic"`
	DistanceKm    float64         `json:"distance_km,omitempty"`
	FuelConsumed  float64         `json:"fuel_consumed,omitempty"`
}

// Collector subscribes to per-vehicle telemetry topics, buffers samples per
// active trip session and finalizes the trip when the end message arrives.
// Sessions are keyed by vehicle id; one vehicle records one trip at a time.
type Collector struct {
	client    mqtt.Client
	finalizer TripFinalizer

	mu       sync.Mutex
	sessions map[string][]models.TelemetrySample
}

// NewCollector creates a collector for the given broker. Start must be
// called before any messages are received.
func NewCollector(brokerURL, clientID string, finalizer TripFinalizer) *Collector {
	c := &Collector{
		finalizer: finalizer,
		sessions:  make(map[string][]models.TelemetrySample),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	}
	c.client = mqtt.NewClient(opts)
	return c
}

// Start connects to the broker and subscribes to the telemetry and trip-end
// topics.
func (c *Collector) Start() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if token := c.client.Subscribe(sampleTopicFilter, 1, c.onSample); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", sampleTopicFilter, token.Error())
	}
	if token := c.client.Subscribe(tripEndTopicFilter, 1, c.onTripEnd); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", tripEndTopicFilter, token.Error())
	}

	log.WithFields(log.Fields{
		"samples":  sampleTopicFilter,
		"trip_end": tripEndTopicFilter,
	}).Info("MQTT collector subscribed")
	return nil
}

// Stop disconnects from the broker. Buffered sessions for trips that never
// ended are discarded.
func (c *Collector) Stop() {
	c.client.Disconnect(250)
}

func (c *Collector) onSample(_ mqtt.Client, msg mqtt.Message) {
	c.ingestSample(msg.Topic(), msg.Payload())
}

func (c *Collector) onTripEnd(_ mqtt.Client, msg mqtt.Message) {
	c.finishTrip(msg.Topic(), msg.Payload())
}

// ingestSample appends a decoded sample to the vehicle's session buffer.
func (c *Collector) ingestSample(topic string, payload []byte) {
	vehicleID := vehicleFromTopic(topic)
	if vehicleID == "" {
		log.WithField("topic", topic).Warn("Telemetry message on malformed topic")
		return
	}

	var sample models.TelemetrySample
	if err := json.Unmarshal(payload, &sample); err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Warn("Dropped undecodable telemetry sample")
		return
	}
	sample.VehicleID = vehicleID

	c.mu.Lock()
	c.sessions[vehicleID] = append(c.sessions[vehicleID], sample)
	c.mu.Unlock()
}

// finishTrip drains the vehicle's session buffer and hands it to the
// finalizer. The buffer is cleared whether or not finalization succeeds; a
// trip rejected as invalid is not retried.
func (c *Collector) finishTrip(topic string, payload []byte) {
	vehicleID := vehicleFromTopic(topic)
	if vehicleID == "" {
		log.WithField("topic", topic).Warn("Trip-end message on malformed topic")
		return
	}

	var end TripEnd
	if err := json.Unmarshal(payload, &end); err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Warn("Dropped undecodable trip-end message")
		return
	}

	c.mu.Lock()
	samples := c.sessions[vehicleID]
	delete(c.sessions, vehicleID)
	c.mu.Unlock()

	meta := coaching.TripMeta{
		TripID:        end.TripID,
		UserID:        end.UserID,
		VehicleID:     vehicleID,
		StartLocation: end.StartLocation,
		EndLocation:   end.EndLocation,
		Route:         end.Route,
		Weather:       end.Weather,
		Traffic:       end.Traffic,
		DistanceKm:    end.DistanceKm,
		FuelConsumed:  end.FuelConsumed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	summary, err := c.finalizer.FinalizeTrip(ctx, samples, meta)
	if err != nil {
		if errors.Is(err, coaching.ErrInvalidTripData) {
			log.WithError(err).WithFields(log.Fields{
				"vehicle_id": vehicleID,
				"trip_id":    end.TripID,
				"samples":    len(samples),
			}).Warn("Discarded invalid trip session")
			return
		}
		log.WithError(err).WithFields(log.Fields{
			"vehicle_id": vehicleID,
			"trip_id":    end.TripID,
		}).Error("Failed to finalize trip")
		return
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"trip_id":    summary.TripID,
		"distance":   summary.Distance,
		"eco_score":  summary.EcoScore,
	}).Info("Trip finalized from MQTT session")
}

// vehicleFromTopic extracts the vehicle id segment from either topic shape:
// ecopilot/telemetry/{vehicleId} or ecopilot/trips/{vehicleId}/end.
func vehicleFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	switch {
	case len(parts) == 3 && parts[0] == "ecopilot" && parts[1] == "telemetry":
		return parts[2]
	case len(parts) == 4 && parts[0] == "ecopilot" && parts[1] == "trips" && parts[3] == "end":
		return parts[2]
	default:
		return ""
	}
}
