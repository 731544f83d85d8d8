// Package preview serves the live document over HTTP and pushes every change
// to connected browsers over a websocket.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// Snapshotter returns the current bundle.
type Snapshotter interface {
	Snapshot() tokens.Bundle
}

// Update is the websocket message sent on every document change.
type Update struct {
	CSS  string `json:"css"`
	Head string `json:"head"`
}

// Server exposes a document and its bundle.
type Server struct {
	sheet       *document.Sheet
	store       Snapshotter
	hub         *Hub
	logger      ports.Logger
	upgrader    websocket.Upgrader
	unsubscribe func()

	changed   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a server and subscribes it to sheet changes. Changes are
// broadcast from a separate goroutine, so a slow client never blocks the
// code mutating the sheet; changes arriving during a broadcast collapse into
// one follow-up update.
func NewServer(sheet *document.Sheet, store Snapshotter, logger ports.Logger) *Server {
	s := &Server{
		sheet:  sheet,
		store:  store,
		hub:    NewHub(),
		logger: logger.With("component", "preview"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.unsubscribe = sheet.Subscribe(func(document.Change) {
		select {
		case s.changed <- struct{}{}:
		default:
		}
	})
	go s.pump()
	return s
}

func (s *Server) pump() {
	for {
		select {
		case <-s.done:
			return
		case <-s.changed:
			s.hub.Broadcast(s.currentUpdate())
		}
	}
}

// Hub returns the broadcast hub.
func (s *Server) Hub() *Hub { return s.hub }

// Register mounts the preview routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/theme.css", s.handleCSS)
	mux.HandleFunc("/api/bundle", s.handleBundle)
	mux.HandleFunc("/ws", s.handleWS)
}

// Handler returns an http.Handler serving every preview route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	s.logger.Info(ctx, "preview server stopped")
	return nil
}

// Close stops listening for document changes and disconnects clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
		s.hub.CloseAll()
	})
}

func (s *Server) currentUpdate() Update {
	return Update{CSS: s.sheet.CSS(), Head: s.sheet.HeadHTML()}
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(s.sheet.CSS()))
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.BrandName}} tokens</title>
{{.Head}}<link rel="stylesheet" href="/theme.css" id="brandkit-theme">
<style>
body { font-family: var(--font-primary), sans-serif; background: hsl(var(--background)); color: hsl(var(--text)); margin: 2rem; }
.swatch { display: inline-block; width: 6rem; height: 4rem; margin: .25rem; border-radius: .5rem; }
</style>
</head>
<body>
<h1>{{.BrandName}}</h1>
<div>{{range .Colors}}<div class="swatch" title="{{.}}" style="background: hsl(var(--{{.}}))"></div>{{end}}</div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = () => { document.getElementById("brandkit-theme").href = "/theme.css?" + Date.now(); };
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	bundle := s.store.Snapshot()
	data := struct {
		BrandName string
		Head      template.HTML
		Colors    []string
	}{
		BrandName: bundle.BrandName,
		Head:      template.HTML(s.sheet.HeadHTML()),
		Colors:    tokens.PaletteKeys,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn(r.Context(), "failed to render preview page", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	s.hub.Add(conn)
	defer func() {
		s.hub.Remove(conn)
		conn.Close()
	}()

	if err := s.hub.WriteJSON(conn, s.currentUpdate()); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
