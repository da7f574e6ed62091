// Package tui is the terminal configuration surface. A Surface runs one
// bubbletea program; the Host gives the controller dialogs and notifications
// that are drawn inside that program.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"editorjump/internal/host"
	"editorjump/internal/panel"
	"editorjump/internal/ui"
	"editorjump/internal/ui/components"
	"editorjump/internal/view"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	eventBuffer  = 64
	actionBuffer = 32

	// DefaultHighlightDelay is how long a highlighted row stays marked before
	// its edit form opens.
	DefaultHighlightDelay = 500 * time.Millisecond
)

// ErrNoSurface is returned by dialogs requested while no terminal surface is open.
var ErrNoSurface = errors.New("no terminal surface is open")

// Options configures the terminal surfaces created by a Host.
type Options struct {
	Logger         *slog.Logger
	Version        string
	Settings       components.SettingsSource // optional, enables the preview screen
	HighlightStyle string
	HighlightDelay time.Duration
	Clipboard      func(string) error
	ProgramOptions []tea.ProgramOption
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.HighlightDelay <= 0 {
		o.HighlightDelay = DefaultHighlightDelay
	}
	if o.Clipboard == nil {
		o.Clipboard = clipboard.WriteAll
	}
	return o
}

// Host creates terminal surfaces and serves the controller's dialogs and
// notifications through the current one.
type Host struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	current *Surface
	status  string
}

// NewHost creates a host
func NewHost(opts Options) *Host {
	opts = opts.withDefaults()
	return &Host{opts: opts, logger: opts.Logger.With("component", "tui")}
}

// Factory returns the panel.SurfaceFactory that creates terminal surfaces.
func (h *Host) Factory() panel.SurfaceFactory {
	return func(ctx context.Context, sink panel.Sink) (panel.Surface, error) {
		s := newSurface(ctx, sink, h.opts)
		h.mu.Lock()
		h.current = s
		status := h.status
		h.mu.Unlock()
		if status != "" {
			s.send(statusMsg{text: status})
		}
		return s, nil
	}
}

// Current returns the most recently created surface, or nil.
func (h *Host) Current() *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil && h.current.closed() {
		return nil
	}
	return h.current
}

// ShowOpenDialog shows a path picker inside the terminal and waits for the user.
func (h *Host) ShowOpenDialog(ctx context.Context, opts host.FileDialogOptions) ([]string, error) {
	s := h.Current()
	if s == nil {
		return nil, ErrNoSurface
	}

	reply := make(chan []string, 1)
	if !s.send(openDialogMsg{opts: opts, reply: reply}) {
		return nil, nil
	}

	select {
	case paths := <-reply:
		return paths, nil
	case <-s.done:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetStatus shows text in the status line of the current and later surfaces.
func (h *Host) SetStatus(text string) {
	h.mu.Lock()
	h.status = text
	h.mu.Unlock()
	if s := h.Current(); s != nil {
		s.send(statusMsg{text: text})
	}
}

// Info shows an information toast.
func (h *Host) Info(message string) {
	h.notify(ui.LevelInfo, message)
}

// Error shows an error toast.
func (h *Host) Error(message string) {
	h.notify(ui.LevelError, message)
}

func (h *Host) notify(level, message string) {
	s := h.Current()
	if s == nil || !s.send(toastMsg{level: level, message: message}) {
		h.logger.Info("notification without surface", "level", level, "message", message)
	}
}

// Surface is one terminal configuration view.
type Surface struct {
	ctx     context.Context
	sink    panel.Sink
	opts    Options
	logger  *slog.Logger
	model   *Model
	events  chan tea.Msg
	actions chan panel.Action

	done      chan struct{}
	closeOnce sync.Once
}

func newSurface(ctx context.Context, sink panel.Sink, opts Options) *Surface {
	s := &Surface{
		ctx:     ctx,
		sink:    sink,
		opts:    opts,
		logger:  opts.Logger.With("component", "tui"),
		events:  make(chan tea.Msg, eventBuffer),
		actions: make(chan panel.Action, actionBuffer),
		done:    make(chan struct{}),
	}
	s.model = NewModel(ModelOptions{
		Events:         s.events,
		Submit:         s.submit,
		Detach:         func() { sink.Detach(s) },
		Settings:       opts.Settings,
		Version:        opts.Version,
		HighlightStyle: opts.HighlightStyle,
		HighlightDelay: opts.HighlightDelay,
		Clipboard:      opts.Clipboard,
		Logger:         s.logger,
	})
	return s
}

// Render replaces the screen content.
func (s *Surface) Render(m view.Model) {
	s.send(renderMsg{model: m})
}

// Post delivers an outbound message to the screen.
func (s *Surface) Post(msg panel.Outbound) {
	s.send(outboundMsg{msg: msg})
}

// Dispose stops the program.
func (s *Surface) Dispose() {
	s.send(disposeMsg{})
}

// Done is closed once the program has exited.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

// Run runs the program until the user quits or the surface is disposed.
// Actions are handed to the controller one at a time, in order.
func (s *Surface) Run() error {
	defer s.close()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go s.dispatch(ctx)

	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, s.opts.ProgramOptions...)
	p := tea.NewProgram(s.model, opts...)
	_, err := p.Run()
	return err
}

func (s *Surface) dispatch(ctx context.Context) {
	for {
		select {
		case a := <-s.actions:
			s.sink.Handle(ctx, a)
		case <-ctx.Done():
			return
		}
	}
}

// submit queues an action without blocking the UI loop.
func (s *Surface) submit(a panel.Action) {
	select {
	case s.actions <- a:
	default:
		s.logger.Warn("action queue full, dropping action", "command", a.Command())
	}
}

// send delivers msg to the program. It never blocks once the program has exited.
func (s *Surface) send(msg tea.Msg) bool {
	if s.closed() {
		return false
	}
	select {
	case s.events <- msg:
		return true
	case <-s.done:
		return false
	}
}

func (s *Surface) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Surface) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
