package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/catalog"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
)

// DisplayHandlers provides HTTP handlers for the screen operator.
type DisplayHandlers struct {
	display *display.Display
	catalog *catalog.Catalog
	log     *zerolog.Logger
}

// NewDisplayHandlers creates a new display handlers instance.
func NewDisplayHandlers(d *display.Display, cat *catalog.Catalog, logger *zerolog.Logger) *DisplayHandlers {
	return &DisplayHandlers{
		display: d,
		catalog: cat,
		log:     logger,
	}
}

// maxRoomLen bounds room names, and with them slot keys.
const maxRoomLen = 64

// SelectRoomRequest switches the active room. Empty selects the default.
type SelectRoomRequest struct {
	Room string `json:"room" binding:"max=64"`
}

// IntervalRequest sets the rotation period.
type IntervalRequest struct {
	IntervalMs int64 `json:"intervalMs" binding:"required"`
}

// ListEvents returns the event catalog.
// GET /api/events
func (h *DisplayHandlers) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.List())
}

// State returns the display snapshot.
// GET /api/display
func (h *DisplayHandlers) State(c *gin.Context) {
	h.respond(c)(h.display.Snapshot(c.Request.Context()))
}

// SelectRoom changes the active room.
// PUT /api/display/room
func (h *DisplayHandlers) SelectRoom(c *gin.Context) {
	var req SelectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid select room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.respond(c)(h.display.SelectRoom(c.Request.Context(), req.Room))
}

// Enter starts the presentation. An empty room stays idle.
// POST /api/presentation/enter
func (h *DisplayHandlers) Enter(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.display.EnterPresentation(ctx); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respond(c)(h.display.Snapshot(ctx))
}

// Exit stops the presentation.
// POST /api/presentation/exit
func (h *DisplayHandlers) Exit(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.display.ExitPresentation(ctx); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respond(c)(h.display.Snapshot(ctx))
}

// Next advances the cursor.
// POST /api/presentation/next
func (h *DisplayHandlers) Next(c *gin.Context) {
	h.respond(c)(h.display.Next(c.Request.Context()))
}

// Previous moves the cursor back.
// POST /api/presentation/previous
func (h *DisplayHandlers) Previous(c *gin.Context) {
	h.respond(c)(h.display.Previous(c.Request.Context()))
}

// SetInterval changes the rotation period.
// PUT /api/presentation/interval
func (h *DisplayHandlers) SetInterval(c *gin.Context) {
	var req IntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.display.SetInterval(ctx, time.Duration(req.IntervalMs)*time.Millisecond); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respond(c)(h.display.Snapshot(ctx))
}

func (h *DisplayHandlers) respond(c *gin.Context) func(display.State, error) {
	return func(state display.State, err error) {
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, stateToProto(state))
	}
}
