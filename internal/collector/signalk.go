package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const navigationBase = "/signalk/v1/api/vessels/self/navigation/"

// Position is one navigation snapshot read off the Signal K bus.
// Auxiliary values are nil when the source does not report them.
type Position struct {
	Latitude         float64
	Longitude        float64
	Altitude         *float64
	SpeedOverGround  *float64
	CourseOverGround *float64
	Timestamp        time.Time
}

// SignalKClient reads navigation data from a Signal K server over its REST API.
type SignalKClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSignalKClient creates a client for the given server. The timeout applies
// per request.
func NewSignalKClient(baseURL, token string, timeout time.Duration) *SignalKClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SignalKClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// valueDoc is the common Signal K REST response shape: a value plus the
// source timestamp of the last update.
type valueDoc struct {
	Value     json.RawMessage `json:"value"`
	Timestamp time.Time       `json:"timestamp"`
}

type positionValue struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
}

// CurrentPosition fetches the vessel's position plus speed and course over
// ground. A missing position is an error; missing speed or course degrade to
// nil so a bare GPS source still produces a fix.
func (c *SignalKClient) CurrentPosition(ctx context.Context) (*Position, error) {
	var doc valueDoc
	if err := c.get(ctx, "position", &doc); err != nil {
		return nil, fmt.Errorf("fetch position: %w", err)
	}
	if len(doc.Value) == 0 {
		return nil, fmt.Errorf("no position data available")
	}

	var value positionValue
	if err := json.Unmarshal(doc.Value, &value); err != nil {
		return nil, fmt.Errorf("parse position: %w", err)
	}
	if value.Latitude == nil || value.Longitude == nil {
		return nil, fmt.Errorf("position is missing coordinates")
	}

	pos := &Position{
		Latitude:  *value.Latitude,
		Longitude: *value.Longitude,
		Altitude:  value.Altitude,
		Timestamp: doc.Timestamp,
	}
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now().UTC()
	}

	pos.SpeedOverGround = c.auxiliaryValue(ctx, "speedOverGround")
	pos.CourseOverGround = c.auxiliaryValue(ctx, "courseOverGroundTrue")

	return pos, nil
}

// auxiliaryValue fetches an optional scalar path. Any failure returns nil:
// a fix without speed or course is still worth storing.
func (c *SignalKClient) auxiliaryValue(ctx context.Context, path string) *float64 {
	var doc valueDoc
	if err := c.get(ctx, path, &doc); err != nil {
		slog.Debug("[SignalK] Auxiliary value unavailable", "path", path, "error", err)
		return nil
	}
	if len(doc.Value) == 0 {
		return nil
	}

	var value float64
	if err := json.Unmarshal(doc.Value, &value); err != nil {
		slog.Debug("[SignalK] Auxiliary value not a number", "path", path, "error", err)
		return nil
	}
	return &value
}

func (c *SignalKClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+navigationBase+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
