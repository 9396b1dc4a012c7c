package guestbook

import (
	"strings"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// record is the persisted shape of a message.
type record struct {
	ID        int64   `json:"id" validate:"required"`
	Text      string  `json:"text" validate:"required"`
	Author    string  `json:"author" validate:"required"`
	Date      string  `json:"date"`
	MediaURL  *string `json:"mediaUrl"`
	MediaType *string `json:"mediaType"`
}

// toRecord keeps only durable media. Inline and blob URLs are written as null.
func toRecord(m Message) record {
	r := record{
		ID:     m.ID,
		Text:   m.Text,
		Author: m.Author,
		Date:   m.Date,
	}
	if m.Media != nil && m.Media.Durable() {
		url := m.Media.URL
		typ := string(m.Media.Type)
		r.MediaURL = &url
		r.MediaType = &typ
	}
	return r
}

func (r record) message() (Message, error) {
	r.Text = strings.TrimSpace(r.Text)
	r.Author = strings.TrimSpace(r.Author)
	if err := validate.Struct(r); err != nil {
		return Message{}, err
	}

	m := Message{
		ID:        r.ID,
		Text:      r.Text,
		Author:    r.Author,
		Date:      r.Date,
		CreatedAt: r.ID,
	}
	// A type without a URL, as older slots contain, is dropped.
	if r.MediaURL != nil && *r.MediaURL != "" && r.MediaType != nil {
		if typ, ok := media.ParseType(*r.MediaType); ok {
			m.Media = &media.Attachment{URL: *r.MediaURL, Type: typ}
		}
	}
	return m, nil
}
