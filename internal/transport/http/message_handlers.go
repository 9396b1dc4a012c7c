package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// MessageHandlers provides HTTP handlers for guest messages.
type MessageHandlers struct {
	display  *display.Display
	registry *media.Registry
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(d *display.Display, reg *media.Registry, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		display:  d,
		registry: reg,
		log:      logger,
	}
}

// MessageRequest is the body of a submission or edit. Field limits are
// checked by the guestbook so the guest sees which field failed.
type MessageRequest struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

func (r MessageRequest) draft() guestbook.Draft {
	return guestbook.Draft{Text: r.Text, Author: r.Author}
}

// Submit adds a message to the active room.
// POST /api/messages
func (h *MessageHandlers) Submit(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid submit request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	att, err := media.Resolve(h.registry, req.MediaURL, req.MediaType)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	msg, err := h.display.Submit(c.Request.Context(), req.draft(), att)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, messageToProto(msg))
}

// Edit replaces a message. The edited copy gets a new id.
// PUT /api/messages/:id
func (h *MessageHandlers) Edit(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid edit request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	att, err := media.Resolve(h.registry, req.MediaURL, req.MediaType)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	msg, found, err := h.display.Edit(c.Request.Context(), id, req.draft(), att)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, messageToProto(msg))
}

// Delete removes a message. Unknown ids succeed.
// DELETE /api/messages/:id
func (h *MessageHandlers) Delete(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}

	if _, err := h.display.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandlers) messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return 0, false
	}
	return id, true
}
