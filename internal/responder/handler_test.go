package responder

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DanBirg/http-test/internal/config"
)

func testHandler(t *testing.T, mutate func(*config.ResponderConfig)) (*Handler, *http.ServeMux) {
	t.Helper()
	cfg := config.DefaultResponderConfig()
	cfg.Hostname = "test-host"
	if mutate != nil {
		mutate(cfg)
	}

	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

func TestHandlerServesPage(t *testing.T) {
	_, mux := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/some/path?x=1", nil)
	req.RemoteAddr = "192.0.2.10:4455"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<h1>Hello from the Server!</h1>") {
		t.Errorf("missing greeting in body: %q", body)
	}
	if !strings.Contains(body, "<p>Your IP: 192.0.2.10</p>") {
		t.Errorf("missing client IP in body: %q", body)
	}
	if !strings.Contains(body, "<p>Requested path: /some/path?x=1</p>") {
		t.Errorf("missing request path in body: %q", body)
	}
	if !strings.Contains(body, "<p>Server hostname: test-host</p>") {
		t.Errorf("missing hostname in body: %q", body)
	}

	// The server time renders in the classic layout.
	m := regexp.MustCompile(`<p>Server time: ([^<]+)</p>`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("missing server time in body: %q", body)
	}
	if _, err := time.Parse(timeLayout, m[1]); err != nil {
		t.Errorf("server time %q does not match layout: %v", m[1], err)
	}
}

func TestHandlerAnswersEveryPath(t *testing.T) {
	_, mux := testHandler(t, nil)

	for _, path := range []string{"/", "/deep/nested/route", "/favicon.ico"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("path %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestHandlerRejectsNonGet(t *testing.T) {
	_, mux := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("expected Allow: GET, got %q", allow)
	}
}

func TestHandlerHealth(t *testing.T) {
	_, mux := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected ok body, got %q", rec.Body.String())
	}
}

func TestHandlerEscapesPath(t *testing.T) {
	_, mux := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/?q=<script>alert(1)</script>", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("request path must be escaped, got %q", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("expected escaped path in body, got %q", body)
	}
}

func TestHandlerAccessLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	h, mux := testHandler(t, func(cfg *config.ResponderConfig) {
		cfg.AccessLog.Enabled = true
		cfg.AccessLog.File = logPath
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.RemoteAddr = "192.0.2.10:4455"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if err := h.Close(); err != nil {
		t.Fatalf("close handler: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read access log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	pattern := `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Received request from 192\.0\.2\.10 - Path: /probe$`
	if !regexp.MustCompile(pattern).MatchString(line) {
		t.Errorf("access line %q does not match %q", line, pattern)
	}
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:8080", "192.0.2.1"},
		{"[::1]:443", "::1"},
		{"noport", "noport"},
	}
	for _, tt := range tests {
		if got := clientAddr(tt.remote); got != tt.want {
			t.Errorf("clientAddr(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
