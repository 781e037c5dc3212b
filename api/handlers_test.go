package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/pipeline"
)

type fakeProcessor struct {
	gotReq      pipeline.Request
	gotBranding core.BrandingOptions
	err         error
}

func (f *fakeProcessor) Process(_ context.Context, req pipeline.Request) (*pipeline.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	sessions := make([]core.SessionData, 0)
	for _, u := range req.AllURLs() {
		sessions = append(sessions, core.SessionData{URL: u, Title: "T"})
	}
	return &pipeline.Response{Success: true, Sessions: sessions, EmailHTML: "<html>ok</html>", RawHTML: "<html>ok</html>"}, nil
}

func (f *fakeProcessor) Recompose(_ context.Context, sessions []core.SessionData, b core.BrandingOptions) (*pipeline.Response, error) {
	f.gotBranding = b
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Response{Success: true, Sessions: sessions, EmailHTML: "<html>" + b.PrimaryColor + "</html>"}, nil
}

func (f *fakeProcessor) Discover(_ context.Context, listingURL string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{listingURL + "/s/1", listingURL + "/s/2"}, nil
}

func newServer(p Processor, burst int) http.Handler {
	return NewHandler(p, NewShareStore(), "https://mail.example/").Routes(NewLimiter(100, burst))
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtract(t *testing.T) {
	p := &fakeProcessor{}
	rec := do(t, newServer(p, 10), http.MethodPost, "/api/extract",
		`{"urls":["https://app.usesession.com/s/a"],"primaryColor":"#123456","sessionHeroImages":{"https://app.usesession.com/s/a":"https://cdn/x.jpg"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	assert.Equal(t, "#123456", p.gotReq.PrimaryColor)
	assert.Equal(t, "https://cdn/x.jpg", p.gotReq.SessionHeroImages["https://app.usesession.com/s/a"])

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Sessions, 1)
	assert.Equal(t, "<html>ok</html>", resp.RawHTML)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       string
		wantStatus int
		wantError  string
	}{
		{"validation", fmt.Errorf("%w: bad url", core.ErrValidation), `{"url":"x"}`, http.StatusBadRequest, "bad url"},
		{"internal", fmt.Errorf("opening fetcher: boom"), `{"url":"x"}`, http.StatusInternalServerError, "Failed to process request"},
		{"malformed body", nil, `{"urls":`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newServer(&fakeProcessor{err: tt.err}, 10), http.MethodPost, "/api/extract", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.wantError)
		})
	}
}

func TestPreview(t *testing.T) {
	p := &fakeProcessor{}
	rec := do(t, newServer(p, 10), http.MethodPost, "/api/preview",
		`{"sessions":[{"url":"u","title":"Spring"}],"primaryColor":"#abcdef","headingFontSize":40}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 40, p.gotBranding.HeadingFontSize)
	assert.Contains(t, rec.Body.String(), "#abcdef")
}

func TestShare_RoundTrip(t *testing.T) {
	srv := newServer(&fakeProcessor{}, 10)

	rec := do(t, srv, http.MethodPost, "/api/share", `{"sessions":[],"emailHtml":"<html>shared</html>","metadata":{"name":"June"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://mail.example/share/"+resp.ID, resp.ShareURL)

	got := do(t, srv, http.MethodGet, "/share/"+resp.ID, "")
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "text/html; charset=utf-8", got.Header().Get("Content-Type"))
	assert.Equal(t, "<html>shared</html>", got.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/share/nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/share", `{"emailHtml":" "}`).Code)
}

func TestRateLimit(t *testing.T) {
	srv := newServer(&fakeProcessor{}, 2)
	body := `{"url":"https://app.usesession.com/s/a"}`

	for range 2 {
		rec := do(t, srv, http.MethodPost, "/api/extract", body, "X-Forwarded-For", "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	}
	limited := do(t, srv, http.MethodPost, "/api/extract", body, "X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	other := do(t, srv, http.MethodPost, "/api/extract", body, "X-Forwarded-For", "10.0.0.2, 10.0.0.1")
	assert.Equal(t, http.StatusOK, other.Code)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthcheck", "", "X-Forwarded-For", "10.0.0.1").Code)
}

func TestCORSAndRequestID(t *testing.T) {
	srv := newServer(&fakeProcessor{}, 1)

	pre := do(t, srv, http.MethodOptions, "/api/extract", "")
	assert.Equal(t, http.StatusOK, pre.Code)
	assert.Equal(t, "*", pre.Header().Get("Access-Control-Allow-Origin"))

	// The preflight does not spend the client's only token.
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/extract", `{"url":"u"}`).Code)

	rec := do(t, srv, http.MethodGet, "/healthcheck", "", requestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestDiscover(t *testing.T) {
	rec := do(t, newServer(&fakeProcessor{}, 10), http.MethodPost, "/api/discover", `{"url":"https://app.usesession.com/p/jane"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"urls":["https://app.usesession.com/p/jane/s/1","https://app.usesession.com/p/jane/s/2"]}`, rec.Body.String())

	bad := do(t, newServer(&fakeProcessor{err: fmt.Errorf("%w: foreign", core.ErrValidation)}, 10), http.MethodPost, "/api/discover", `{"url":"x"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
