// Package responder implements the companion test server: a tiny HTTP
// service that answers every GET with a diagnostic page, so a load
// test always has something honest to point at.
package responder

import (
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/DanBirg/http-test/internal/config"
	"github.com/DanBirg/http-test/internal/logging"
)

const timeLayout = "2006-01-02 15:04:05"

const pageHTML = `<html>
<head>
    <title>Simple HTTP Server</title>
</head>
<body>
    <h1>Hello from the Server!</h1>
    <p>Your IP: {{.ClientIP}}</p>
    <p>Requested path: {{.Path}}</p>
    <p>Server time: {{.Time}}</p>
    <p>Server hostname: {{.Hostname}}</p>
</body>
</html>
`

type pageData struct {
	ClientIP string
	Path     string
	Time     string
	Hostname string
}

// Handler serves the diagnostic page on every path.
type Handler struct {
	hostname  string
	tpl       *template.Template
	accessLog io.WriteCloser
}

// NewHandler creates the responder handler. The hostname shown on the
// page comes from cfg, falling back to the OS hostname.
func NewHandler(cfg *config.ResponderConfig) (*Handler, error) {
	hostname := cfg.Hostname
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve hostname: %w", err)
		}
		hostname = h
	}

	h := &Handler{
		hostname: hostname,
		tpl:      template.Must(template.New("page").Parse(pageHTML)),
	}
	if cfg.AccessLog.Enabled {
		h.accessLog = &lumberjack.Logger{
			Filename:   cfg.AccessLog.File,
			MaxSize:    cfg.AccessLog.Rotation.MaxSize,
			MaxBackups: cfg.AccessLog.Rotation.MaxBackups,
			MaxAge:     cfg.AccessLog.Rotation.MaxAge,
			Compress:   cfg.AccessLog.Rotation.Compress,
			LocalTime:  cfg.AccessLog.Rotation.LocalTime,
		}
	}
	return h, nil
}

// RegisterRoutes registers the responder endpoints on the given mux.
// The page handler sits at the root pattern and therefore answers
// every path nothing else claims.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/", h.handlePage)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		recordRequest(r.URL.Path, http.StatusMethodNotAllowed, time.Since(start))
		return
	}

	clientIP := clientAddr(r.RemoteAddr)
	now := start.Format(timeLayout)
	path := r.URL.RequestURI()

	logging.Info("received request",
		zap.String("client_ip", clientIP),
		zap.String("path", path))
	h.logAccess(now, clientIP, path)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.tpl.Execute(w, pageData{
		ClientIP: clientIP,
		Path:     path,
		Time:     now,
		Hostname: h.hostname,
	})
	recordRequest(r.URL.Path, http.StatusOK, time.Since(start))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
	recordRequest(r.URL.Path, http.StatusOK, time.Since(start))
}

// logAccess appends the classic one-line request record to the access
// log file when one is configured.
func (h *Handler) logAccess(now, clientIP, path string) {
	if h.accessLog == nil {
		return
	}
	fmt.Fprintf(h.accessLog, "[%s] Received request from %s - Path: %s\n", now, clientIP, path)
}

// Close releases the access log file if one is open.
func (h *Handler) Close() error {
	if h.accessLog == nil {
		return nil
	}
	return h.accessLog.Close()
}

// clientAddr strips the port from a remote address, leaving the bare
// IP the way the page reports it.
func clientAddr(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
