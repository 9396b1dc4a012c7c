package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/rotation"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to status codes. Validation messages are
// shown to the guest as they are.
func writeError(c *gin.Context, logger *zerolog.Logger, err error) {
	var (
		draftErr *guestbook.ValidationError
		mediaErr *media.ValidationError
	)

	switch {
	case errors.As(err, &draftErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: draftErr.Msg})
	case errors.As(err, &mediaErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: mediaErr.Msg})
	case errors.Is(err, rotation.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "interval must be 5, 10, 15, 20 or 30 seconds"})
	case errors.Is(err, display.ErrRoomClosed):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "this event is not accepting messages"})
	case errors.Is(err, display.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "display unavailable"})
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
