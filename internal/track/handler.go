package track

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httperr "github.com/mailbradsimmscom/pi/internal/core/errors"
	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// RegisterRoutes registers all track API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/track/:boat_id/latest", s.HandleLatestFix)
	r.GET("/v1/track/:boat_id", s.HandleQueryTrack)
}

// HandleLatestFix handles GET /v1/track/:boat_id/latest
func (s *Service) HandleLatestFix(c *gin.Context) {
	boatID := c.Param("boat_id")

	fix, err := s.LatestFix(c.Request.Context(), boatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "No fixes recorded for boat",
				Details:   boatID,
			})
			return
		}
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidParamError,
				Message:   "Invalid track query",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to fetch latest fix",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, fix)
}

// HandleQueryTrack handles GET /v1/track/:boat_id
// Query parameters: start, end, limit
func (s *Service) HandleQueryTrack(c *gin.Context) {
	var query struct {
		Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		Limit int       `form:"limit"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidParamError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	req := TrackQueryRequest{
		BoatID: c.Param("boat_id"),
		Start:  query.Start,
		End:    query.End,
		Limit:  query.Limit,
	}

	resp, err := s.QueryTrack(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidParamError,
				Message:   "Invalid track query",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query track",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
