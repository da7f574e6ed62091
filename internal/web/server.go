// Package web serves the configuration page to a browser. The page talks to
// the controller over a websocket at /ws using the same JSON messages the
// terminal surface sends as Go values.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"editorjump/internal/panel"
	"editorjump/internal/ui"
	"editorjump/internal/view"

	"github.com/gorilla/handlers"
	"github.com/julienschmidt/httprouter"
)

// DefaultAddr is where the page is served unless configured otherwise.
const DefaultAddr = "127.0.0.1:7717"

const (
	shutdownTimeout = 5 * time.Second
	maxPending      = 32
	actionBuffer    = 16
	closedPage      = "<!DOCTYPE html><html><body><p>The configuration page was closed.</p></body></html>"
)

// ErrNotRendered is returned by the page handler before the first render.
var ErrNotRendered = errors.New("configuration page has not been rendered yet")

// Options configures a Server.
type Options struct {
	Addr   string
	Logger *slog.Logger
}

// Server hosts at most one live browser surface at a time.
type Server struct {
	addr   string
	logger *slog.Logger
	hub    *hub

	mu        sync.Mutex
	current   *Surface
	page      string
	model     *view.Model
	reloading bool     // a render was broadcast; frames wait for the reloaded tab
	pending   [][]byte // frames sent while no tab could take them

	handler http.Handler
}

// NewServer creates a server. Call Serve to start listening.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("component", "web")

	s := &Server{
		addr:   opts.Addr,
		logger: logger,
		hub:    newHub(logger),
	}

	router := httprouter.New()
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		logger.Error("handler panic", "path", r.URL.Path, "panic", v)
		http.Error(w, fmt.Sprintf("panic: %v", v), http.StatusInternalServerError)
	}
	router.GET("/", s.index)
	router.GET("/state", s.state)
	router.GET("/ws", s.websocket)

	var h http.Handler = router
	h = handlers.LoggingHandler(logWriter{logger: logger}, h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger: logger}))(h)
	s.handler = h
	return s
}

// Handler returns the HTTP handler with its middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// URL is the address a browser should open.
func (s *Server) URL() string {
	return "http://" + s.addr + "/"
}

// Serve listens on the configured address until ctx is cancelled. ready, if
// non-nil, is called once the listener is bound.
func (s *Server) Serve(ctx context.Context, ready func(url string)) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.addr = ln.Addr().String()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("serving configuration page", "url", s.URL())
	if ready != nil {
		ready(s.URL())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Factory returns the panel.SurfaceFactory creating browser surfaces.
func (s *Server) Factory() panel.SurfaceFactory {
	return func(ctx context.Context, sink panel.Sink) (panel.Surface, error) {
		surface := &Surface{
			server:  s,
			sink:    sink,
			ctx:     ctx,
			actions: make(chan panel.Action, actionBuffer),
			done:    make(chan struct{}),
		}
		s.mu.Lock()
		s.current = surface
		s.mu.Unlock()
		go surface.dispatch()
		return surface, nil
	}
}

// Info shows an information banner on the page.
func (s *Server) Info(message string) {
	s.notify(ui.LevelInfo, message)
}

// Error shows an error banner on the page.
func (s *Server) Error(message string) {
	s.notify(ui.LevelError, message)
}

func (s *Server) notify(level, message string) {
	data, err := json.Marshal(map[string]string{
		"command": "notify",
		"level":   level,
		"message": message,
	})
	if err != nil {
		s.logger.Error("encode notification", "error", err)
		return
	}
	s.deliver(data)
}

// deliver broadcasts data, or keeps it for the next tab that connects.
func (s *Server) deliver(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reloading && s.hub.broadcast(data) > 0 {
		return
	}
	if len(s.pending) >= maxPending {
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, data)
}

func (s *Server) surface() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	page := s.page
	closed := s.current == nil
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	switch {
	case closed && page == "":
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(closedPage))
	case page == "":
		http.Error(w, ErrNotRendered.Error(), http.StatusServiceUnavailable)
	default:
		w.Write([]byte(page))
	}
}

func (s *Server) state(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	m := s.model
	s.mu.Unlock()

	if m == nil {
		http.Error(w, ErrNotRendered.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m); err != nil {
		s.logger.Warn("encode state", "error", err)
	}
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c, err := s.hub.upgrade(w, r, s.handleFrame)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.reloading = false
	s.mu.Unlock()

	for _, data := range pending {
		if !s.hub.sendTo(c, data) {
			s.logger.Warn("dropping queued frame", "client", c.id)
		}
	}
}

// handleFrame runs on the client's read goroutine. Actions go to the
// surface queue so a long-running handler, such as an open dialog, does not
// stop the connection from answering pings.
func (s *Server) handleFrame(c *client, data []byte) {
	a, err := panel.DecodeAction(data)
	if err != nil {
		s.logger.Warn("ignoring websocket frame", "client", c.id, "error", err)
		return
	}

	surface := s.surface()
	if surface == nil {
		s.logger.Info("action without an open surface", "command", a.Command())
		return
	}
	surface.submit(a)
}

// Surface is the browser view of one Controller.Open.
type Surface struct {
	server  *Server
	sink    panel.Sink
	ctx     context.Context
	actions chan panel.Action

	done      chan struct{}
	closeOnce sync.Once
}

// dispatch hands queued actions to the controller one at a time, in order.
func (s *Surface) dispatch() {
	for {
		select {
		case a := <-s.actions:
			s.sink.Handle(s.ctx, a)
		case <-s.done:
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Surface) submit(a panel.Action) {
	select {
	case s.actions <- a:
	case <-s.done:
	default:
		s.server.logger.Warn("action queue full, dropping action", "command", a.Command())
	}
}

// Render replaces the served document and tells open tabs to reload.
func (s *Surface) Render(m view.Model) {
	page, err := view.RenderHTML(m)
	if err != nil {
		s.server.logger.Error("render page", "error", err)
		return
	}

	srv := s.server
	srv.mu.Lock()
	if srv.current != s {
		srv.mu.Unlock()
		return
	}
	srv.page = page
	srv.model = &m
	srv.mu.Unlock()

	data, _ := json.Marshal(map[string]string{"command": "render"})
	srv.mu.Lock()
	if srv.hub.broadcast(data) > 0 {
		srv.reloading = true
	}
	srv.mu.Unlock()
}

// Post sends msg to the open tabs, or to the next one that connects.
func (s *Surface) Post(msg panel.Outbound) {
	data, err := panel.EncodeOutbound(msg)
	if err != nil {
		s.server.logger.Error("encode outbound message", "command", msg.Command(), "error", err)
		return
	}
	s.server.deliver(data)
}

// Dispose stops serving this surface. Tabs keep their page but actions are ignored.
func (s *Surface) Dispose() {
	s.closeOnce.Do(func() { close(s.done) })

	srv := s.server
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.current == s {
		srv.current = nil
		srv.page = ""
		srv.model = nil
		srv.pending = nil
	}
}

// Close is the user closing the page: the surface detaches from its controller.
func (s *Surface) Close() {
	s.Dispose()
	s.sink.Detach(s)
}

type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug("http", "access", string(trimNewline(p)))
	return len(p), nil
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("http handler panic", "panic", fmt.Sprint(v...))
}

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}
