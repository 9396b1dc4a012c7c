package guestbook

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		wantErr   error
		wantField string
	}{
		{name: "ok", draft: Draft{Text: " Felicidades! ", Author: " Ana "}},
		{name: "blank text", draft: Draft{Text: "   ", Author: "Ana"}, wantErr: ErrEmptyField, wantField: "text"},
		{name: "blank author", draft: Draft{Text: "hola", Author: "\t"}, wantErr: ErrEmptyField, wantField: "author"},
		{name: "text too long", draft: Draft{Text: strings.Repeat("a", MaxTextLen+1), Author: "Ana"}, wantErr: ErrTooLong, wantField: "text"},
		{name: "author too long", draft: Draft{Text: "hola", Author: strings.Repeat("b", MaxAuthorLen+1)}, wantErr: ErrTooLong, wantField: "author"},
		{name: "multibyte counts characters", draft: Draft{Text: strings.Repeat("ñ", MaxTextLen), Author: "José"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.draft.Text), got.Text)
				assert.Equal(t, strings.TrimSpace(tt.draft.Author), got.Author)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestStamperMonotonicIDs(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, time.November, 23, 22, 0, 0, 0, time.UTC))
	s := NewStamper(clk, time.UTC)

	a := s.Stamp(Draft{Text: "a", Author: "x"}, nil)
	b := s.Stamp(Draft{Text: "b", Author: "x"}, nil)
	clk.Add(5 * time.Millisecond)
	c := s.Stamp(Draft{Text: "c", Author: "x"}, nil)

	assert.Equal(t, clk.Now().UnixMilli()-5, a.ID)
	assert.Equal(t, a.ID+1, b.ID, "same millisecond must not collide")
	assert.Equal(t, clk.Now().UnixMilli(), c.ID)
	assert.Equal(t, a.ID, a.CreatedAt)
	assert.Equal(t, "23 de noviembre de 2025", a.Date)
}

func TestStamperCopiesAttachment(t *testing.T) {
	s := NewStamper(clock.NewMock(), time.UTC)
	att := &media.Attachment{URL: "https://x.example.com/a.jpg", Type: media.TypeImage}

	m := s.Stamp(Draft{Text: "a", Author: "x"}, att)
	att.URL = "changed"

	require.NotNil(t, m.Media)
	assert.Equal(t, "https://x.example.com/a.jpg", m.Media.URL)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 de enero de 2026", FormatDate(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre de 2025", FormatDate(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)))
}
