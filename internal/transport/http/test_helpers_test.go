package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/catalog"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv/memory"
	applog "github.com/alejandrobavaro/msjspantallaeventos/internal/log"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server   *httptest.Server
	display  *display.Display
	registry *media.Registry
}

func startTestServer(t *testing.T, tweak func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.SubmitRateLimit = 0
	cfg.WSRateLimit = 0
	if tweak != nil {
		tweak(&cfg)
	}

	logger := applog.Nop()
	cat := catalog.New(cfg.Events)
	reg := media.NewRegistry()
	d := display.New(display.Options{
		Slots:      memory.New(0),
		Registry:   reg,
		Logger:     logger,
		Room:       cfg.Display.DefaultRoom,
		AcceptRoom: cat.AcceptsMessages,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(Deps{
		Display:  d,
		Ingester: media.NewIngester(reg, logger),
		Catalog:  cat,
	}, &cfg, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, display: d, registry: reg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *stdhttp.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := stdhttp.NewRequest(method, e.server.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) upload(t *testing.T, name, contentType string, data []byte) *stdhttp.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	resp, err := e.server.Client().Post(e.server.URL+"/api/media", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *stdhttp.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *stdhttp.Response, want int) {
	t.Helper()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d (want %d): %s", resp.StatusCode, want, body)
	}
}
