package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// uploadOverhead is allowed on top of the largest file for multipart framing.
const uploadOverhead = 64 << 10

// MediaHandlers provides HTTP handlers for attachment uploads.
type MediaHandlers struct {
	ingester *media.Ingester
	log      *zerolog.Logger
}

// NewMediaHandlers creates a new media handlers instance.
func NewMediaHandlers(ing *media.Ingester, logger *zerolog.Logger) *MediaHandlers {
	return &MediaHandlers{
		ingester: ing,
		log:      logger,
	}
}

// MediaResponse describes an ingested attachment.
type MediaResponse struct {
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// ReleaseRequest names an attachment the guest discarded.
type ReleaseRequest struct {
	MediaURL string `json:"mediaUrl" binding:"required"`
}

// Upload ingests a multipart file field named "file".
// POST /api/media
func (h *MediaHandlers) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxVideoBytes+uploadOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file too large: maximum allowed is 5MB"})
			return
		}
		h.log.Debug().Err(err).Msg("missing upload")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file selected"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer f.Close()

	att, err := h.ingester.Ingest(c.Request.Context(), media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().Str("name", fh.Filename).Str("type", string(att.Type)).Int64("size", fh.Size).Msg("media uploaded")
	c.JSON(http.StatusCreated, MediaResponse{MediaURL: att.URL, MediaType: string(att.Type)})
}

// Release discards an uploaded attachment that was never sent.
// DELETE /api/media
func (h *MediaHandlers) Release(c *gin.Context) {
	var req ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.ingester.Release(media.Attachment{URL: req.MediaURL})
	c.Status(http.StatusNoContent)
}

// Blob serves the bytes behind an ephemeral video reference.
// GET /media/blob/:id
func (h *MediaHandlers) Blob(c *gin.Context) {
	blob, ok := h.ingester.Registry().Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "media not found"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
