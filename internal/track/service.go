package track

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "github.com/mailbradsimmscom/pi/internal/api/v1"
	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

const (
	defaultLimit = 1000
	maxLimit     = 10000
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid track query")

// TrackQueryRequest represents the query parameters for fetching a track segment.
type TrackQueryRequest struct {
	BoatID string
	Start  time.Time
	End    time.Time
	Limit  int
}

// TrackQueryResponse represents the response for a track segment query.
type TrackQueryResponse struct {
	BoatID string    `json:"boat_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Count  int       `json:"count"`
	Fixes  []*v1.Fix `json:"fixes"`
}

// Service implements the track read layer over the fix store.
type Service struct {
	store storage.FixStore
}

func NewService(store storage.FixStore) *Service {
	if store == nil {
		panic("track: store must not be nil")
	}
	return &Service{store: store}
}

// LatestFix returns the most recent fix for a boat.
// Returns storage.ErrNotFound when the boat has no fixes.
func (s *Service) LatestFix(ctx context.Context, boatID string) (*v1.Fix, error) {
	if boatID == "" {
		return nil, invalidQueryf("boat_id is required")
	}
	return s.store.LatestFix(ctx, boatID)
}

// QueryTrack returns the fixes for a boat inside [start, end), oldest first.
func (s *Service) QueryTrack(ctx context.Context, req TrackQueryRequest) (*TrackQueryResponse, error) {
	req, err := s.normalizeAndValidate(req)
	if err != nil {
		return nil, err
	}

	fixes, err := s.store.FetchFixesInRange(ctx, req.BoatID, req.Start, req.End, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("query track segment: %w", err)
	}

	return &TrackQueryResponse{
		BoatID: req.BoatID,
		Start:  req.Start,
		End:    req.End,
		Count:  len(fixes),
		Fixes:  fixes,
	}, nil
}

func (s *Service) normalizeAndValidate(req TrackQueryRequest) (TrackQueryRequest, error) {
	if req.BoatID == "" {
		return req, invalidQueryf("boat_id is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return req, invalidQueryf("start and end are required")
	}
	if !req.Start.Before(req.End) {
		return req, invalidQueryf("start %s must be before end %s", req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	return req, nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
