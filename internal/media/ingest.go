package media

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// sniffLen is how many leading bytes are inspected when no type is declared.
const sniffLen = 3072

// File is a guest upload as declared by the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ingester turns uploads into attachments.
type Ingester struct {
	registry *Registry
	log      *zerolog.Logger
}

// NewIngester creates an ingester backed by reg.
func NewIngester(reg *Registry, logger *zerolog.Logger) *Ingester {
	return &Ingester{registry: reg, log: logger}
}

// Registry returns the blob registry used for videos.
func (i *Ingester) Registry() *Registry {
	return i.registry
}

// Ingest validates f against the size ceiling of its declared category and
// encodes it. Images become data URLs, videos become blob references.
func (i *Ingester) Ingest(ctx context.Context, f File) (Attachment, error) {
	if f.Body == nil {
		return Attachment{}, invalid("no file selected", ErrEmptyFile)
	}

	body := bufio.NewReaderSize(f.Body, sniffLen)
	contentType := normalizeType(f.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := body.Peek(sniffLen)
		contentType = normalizeType(mimetype.Detect(head).String())
	}

	limit := LimitFor(contentType)
	if f.Size > limit {
		return Attachment{}, tooLarge(limit)
	}

	var typ Type
	switch {
	case strings.HasPrefix(contentType, "image/"):
		typ = TypeImage
	case strings.HasPrefix(contentType, "video/"):
		typ = TypeVideo
	default:
		return Attachment{}, invalid("only images and videos can be attached", ErrUnsupportedType)
	}

	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return Attachment{}, tooLarge(limit)
	}
	if len(data) == 0 {
		return Attachment{}, invalid("file is empty", ErrEmptyFile)
	}

	if typ == TypeImage {
		url := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
		i.log.Debug().Str("name", f.Name).Int("bytes", len(data)).Msg("image encoded")
		return Attachment{URL: url, Type: TypeImage}, nil
	}

	ref := i.registry.Create(contentType, data)
	i.log.Debug().Str("name", f.Name).Str("ref", ref).Int("bytes", len(data)).Msg("video registered")
	return Attachment{URL: ref, Type: TypeVideo}, nil
}

// Release discards an attachment that was never sent, revoking its blob if
// it has one. Blobs owned by a message are left to the message.
func (i *Ingester) Release(a Attachment) bool {
	if !a.Ephemeral() || !i.registry.Discard(a.URL) {
		return false
	}
	i.log.Debug().Str("ref", a.URL).Msg("blob revoked")
	return true
}

func normalizeType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if ct == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(ct); err == nil {
		return parsed
	}
	return ct
}
