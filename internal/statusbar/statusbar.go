// Package statusbar keeps the one-line indicator of the active IDE.
package statusbar

import (
	"context"
	"log/slog"
	"sync"

	"editorjump/internal/commands"
	"editorjump/internal/host"
	"editorjump/internal/launcher"
	"editorjump/internal/models"
	"editorjump/internal/settings"
)

const (
	glyph          = "⚡ "
	notFoundSuffix = " (not found)"
)

// Options configures an Indicator.
type Options struct {
	Store    settings.Store
	Platform host.Platform
	Logger   *slog.Logger

	// Available overrides the command lookup, mainly for tests.
	Available func(launcher.Invocation) bool
}

// Indicator shows which IDE a jump goes to.
type Indicator struct {
	store     settings.Store
	platform  host.Platform
	logger    *slog.Logger
	available func(launcher.Invocation) bool

	mu      sync.Mutex
	text    string
	tooltip string
	subs    map[int]func(string)
	nextSub int
}

// New creates an indicator. Call Refresh or Register before reading Text.
func New(opts Options) *Indicator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Platform == "" {
		opts.Platform = host.Current()
	}
	if opts.Available == nil {
		opts.Available = launcher.Invocation.Available
	}
	return &Indicator{
		store:     opts.Store,
		platform:  opts.Platform,
		logger:    opts.Logger.With("component", "statusbar"),
		available: opts.Available,
		subs:      make(map[int]func(string)),
	}
}

// Register binds the indicator to commands.UpdateStatusBar and computes the
// first text. The returned function unregisters it.
func (i *Indicator) Register(ctx context.Context, r *commands.Registry) func() {
	if err := i.Refresh(ctx); err != nil {
		i.logger.Warn("initial status refresh failed", "error", err)
	}
	return r.Register(commands.UpdateStatusBar, func(ctx context.Context, _ ...any) error {
		return i.Refresh(ctx)
	})
}

// Refresh re-reads the store and notifies subscribers when the text changed.
func (i *Indicator) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap, err := settings.Read(i.store)
	if err != nil {
		return err
	}

	text, tooltip := i.describe(snap)

	i.mu.Lock()
	changed := text != i.text
	i.text = text
	i.tooltip = tooltip
	subs := make([]func(string), 0, len(i.subs))
	for _, fn := range i.subs {
		subs = append(subs, fn)
	}
	i.mu.Unlock()

	if changed {
		i.logger.Debug("status updated", "text", text)
		for _, fn := range subs {
			fn(text)
		}
	}
	return nil
}

func (i *Indicator) describe(snap settings.Snapshot) (text, tooltip string) {
	text = glyph + snap.Selected

	ide, ok := models.Find(snap.IDEs, snap.Selected)
	if !ok {
		return text + notFoundSuffix, "No configuration for " + snap.Selected
	}
	inv, err := launcher.Resolve(ide, i.platform)
	if err != nil {
		return text + notFoundSuffix, err.Error()
	}
	if !i.available(inv) {
		return text + notFoundSuffix, "Command not found: " + inv.String()
	}
	return text, "Jump with " + inv.String()
}

// Text is the indicator line, e.g. "⚡ GoLand".
func (i *Indicator) Text() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.text
}

// Tooltip explains the text: the command used, or why it is not found.
func (i *Indicator) Tooltip() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.tooltip
}

// Subscribe calls fn with every new text until the returned cancel is called.
func (i *Indicator) Subscribe(fn func(text string)) (cancel func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nextSub++
	id := i.nextSub
	i.subs[id] = fn
	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.subs, id)
	}
}
