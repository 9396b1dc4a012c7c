// Package media validates and encodes guest attachments.
//
// Images become inline data URLs. Videos become blob references held in a
// Registry for the lifetime of the process and must be revoked when the
// attachment is discarded.
package media

import (
	"net/url"
	"strings"
)

// Type is the attachment category.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
)

const (
	// MaxImageBytes caps image uploads.
	MaxImageBytes int64 = 2 << 20
	// MaxVideoBytes caps everything that is not an image.
	MaxVideoBytes int64 = 5 << 20
)

// Attachment is an image or video bound to a message.
type Attachment struct {
	URL  string
	Type Type
}

// Durable reports whether the URL survives a reload (remote http resource).
func (a Attachment) Durable() bool {
	return strings.HasPrefix(a.URL, "http")
}

// Ephemeral reports whether the URL is a registry blob reference.
func (a Attachment) Ephemeral() bool {
	return strings.HasPrefix(a.URL, blobScheme)
}

// ParseType converts a wire value into a Type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeImage, TypeVideo:
		return Type(s), true
	default:
		return "", false
	}
}

// LimitFor returns the size ceiling for a declared content type.
func LimitFor(contentType string) int64 {
	if strings.HasPrefix(contentType, "image/") {
		return MaxImageBytes
	}
	return MaxVideoBytes
}

// Resolve validates a caller-supplied attachment. Both fields empty means
// no attachment and yields nil.
func Resolve(reg *Registry, rawURL, rawType string) (*Attachment, error) {
	if rawURL == "" && rawType == "" {
		return nil, nil
	}
	if rawURL == "" || rawType == "" {
		return nil, invalid("mediaUrl and mediaType must be set together", ErrInvalidAttachment)
	}

	typ, ok := ParseType(rawType)
	if !ok {
		return nil, invalid("mediaType must be image or video", ErrInvalidAttachment)
	}

	switch {
	case strings.HasPrefix(rawURL, "data:"):
		if typ != TypeImage || !strings.HasPrefix(rawURL, "data:image/") || !strings.Contains(rawURL, ";base64,") {
			return nil, invalid("inline media must be a base64 image", ErrInvalidAttachment)
		}
	case strings.HasPrefix(rawURL, blobScheme):
		if reg == nil {
			return nil, invalid("unknown media reference", ErrInvalidAttachment)
		}
		blob, ok := reg.Lookup(rawURL)
		if !ok {
			return nil, invalid("unknown media reference", ErrInvalidAttachment)
		}
		if blob.Claimed {
			return nil, invalid("media is already attached to another message", ErrBlobInUse)
		}
	default:
		u, err := url.Parse(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, invalid("mediaUrl must be an http(s) URL", ErrInvalidAttachment)
		}
	}

	return &Attachment{URL: rawURL, Type: typ}, nil
}
