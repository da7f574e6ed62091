// Package panel owns the configuration surface: it turns surface actions into
// settings writes and re-renders the surface from a fresh read after each one.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"editorjump/internal/commands"
	"editorjump/internal/host"
	"editorjump/internal/models"
	"editorjump/internal/settings"
	"editorjump/internal/view"
)

// User-facing strings.
const (
	selectPathLabel      = "Select"
	selectPathTitleMac   = "Select JetBrains IDE Command"
	selectFolderLabel    = "Select Folder"
	selectFolderTitle    = "Select JetBrains Root Project Path (directory containing .idea)"
	msgRemoveSelected    = "Cannot remove currently selected IDE. Please select another IDE first"
	msgRemoved           = "IDE configuration removed"
	msgRootPathSaved     = "JetBrains root project path saved."
	msgHandlingErrPrefix = "Error handling message: "
)

// Options configures a Controller.
type Options struct {
	Store    settings.Store
	Dialogs  host.Dialogs
	Notifier host.Notifier
	Commands host.Commands
	Platform host.Platform
	Logger   *slog.Logger
	Factory  SurfaceFactory

	// RootPathHint is shown as placeholder of the root path field.
	RootPathHint string
}

// Controller holds at most one live surface.
type Controller struct {
	store    settings.Store
	dialogs  host.Dialogs
	notifier host.Notifier
	commands host.Commands
	platform host.Platform
	logger   *slog.Logger
	factory  SurfaceFactory
	rootHint string

	handleMu sync.Mutex // one action at a time

	surfaceMu sync.Mutex
	surface   Surface
}

// New creates a controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	platform := opts.Platform
	if platform == "" {
		platform = host.Current()
	}
	return &Controller{
		store:    opts.Store,
		dialogs:  opts.Dialogs,
		notifier: opts.Notifier,
		commands: opts.Commands,
		platform: platform,
		logger:   logger.With("component", "panel"),
		factory:  opts.Factory,
		rootHint: opts.RootPathHint,
	}
}

// Open disposes the current surface, if any, creates a new one and renders it
// from the store.
func (c *Controller) Open(ctx context.Context) (Surface, error) {
	c.surfaceMu.Lock()
	old := c.surface
	c.surface = nil
	c.surfaceMu.Unlock()

	if old != nil {
		old.Dispose()
	}

	s, err := c.factory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}

	snap, err := settings.Read(c.store)
	if err != nil {
		s.Dispose()
		return nil, err
	}

	c.surfaceMu.Lock()
	c.surface = s
	c.surfaceMu.Unlock()

	s.Render(c.buildView(snap))
	return s, nil
}

// Detach forgets s if it is the current surface.
func (c *Controller) Detach(s Surface) {
	c.surfaceMu.Lock()
	defer c.surfaceMu.Unlock()
	if c.surface == s {
		c.surface = nil
	}
}

// Surface returns the live surface or nil.
func (c *Controller) Surface() Surface {
	c.surfaceMu.Lock()
	defer c.surfaceMu.Unlock()
	return c.surface
}

// Highlight asks the open surface to show name. Without a surface it does nothing.
func (c *Controller) Highlight(name string) {
	if s := c.Surface(); s != nil {
		s.Post(HighlightIDE{Name: name})
	}
}

// Handle runs one action. Failures are logged and shown to the user; they
// never propagate.
func (c *Controller) Handle(ctx context.Context, a Action) {
	c.handleMu.Lock()
	defer c.handleMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.fail(a, fmt.Errorf("panic: %v", r))
		}
	}()

	c.logger.Debug("received action", "command", a.Command(), "action", fmt.Sprintf("%+v", a))

	if err := c.dispatch(ctx, a); err != nil {
		c.fail(a, err)
	}
}

func (c *Controller) fail(a Action, err error) {
	c.logger.Error("handling action failed", "command", a.Command(), "error", err)
	c.notifyError(msgHandlingErrPrefix + err.Error())
}

func (c *Controller) dispatch(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case AddIDE:
		return c.addIDE(ctx, a)
	case UpdateIDE:
		return c.updateIDE(ctx, a)
	case RemoveIDE:
		return c.removeIDE(ctx, a)
	case SelectIDE:
		return c.selectIDE(ctx, a)
	case SelectPath:
		return c.selectPath(ctx, a)
	case SelectPathForRootProject:
		return c.selectRootFolder(ctx)
	case SaveRootProjectPath:
		return c.saveRootPath(a)
	}
	return fmt.Errorf("unknown action %T", a)
}

func (c *Controller) addIDE(ctx context.Context, a AddIDE) error {
	snap, err := settings.Read(c.store)
	if err != nil {
		return err
	}

	ides, err := models.Upsert(snap.IDEs, a.IDE)
	if errors.Is(err, models.ErrDuplicateIDE) {
		c.notifyError(fmt.Sprintf("IDE %s already exists", a.IDE.Name))
		return nil
	}
	if err != nil {
		return err
	}

	if err := settings.SetIDEs(c.store, ides); err != nil {
		return fmt.Errorf("save ide configurations: %w", err)
	}
	c.logger.Info("ide saved", "name", a.IDE.Name, "custom", a.IDE.IsCustom)

	if err := c.rerender(); err != nil {
		return err
	}
	c.notifyInfo("IDE configuration saved: " + a.IDE.Name)
	c.updateStatusBar(ctx)
	return nil
}

func (c *Controller) updateIDE(ctx context.Context, a UpdateIDE) error {
	snap, err := settings.Read(c.store)
	if err != nil {
		return err
	}

	ides := models.Merge(snap.IDEs, a.Patch)
	if err := settings.SetIDEs(c.store, ides); err != nil {
		return fmt.Errorf("save ide configurations: %w", err)
	}

	hiding := a.Patch.Hidden != nil && *a.Patch.Hidden
	if a.Patch.Name == snap.Selected && hiding {
		if next, ok := models.FirstVisible(ides); ok {
			if err := settings.SetSelected(c.store, next.Name); err != nil {
				return fmt.Errorf("save selected ide: %w", err)
			}
			c.logger.Info("selected ide hidden, falling back", "from", snap.Selected, "to", next.Name)
		}
	}

	if err := c.rerender(); err != nil {
		return err
	}
	c.updateStatusBar(ctx)
	return nil
}

func (c *Controller) removeIDE(ctx context.Context, a RemoveIDE) error {
	snap, err := settings.Read(c.store)
	if err != nil {
		return err
	}

	ides, err := models.Remove(snap.IDEs, a.Name, snap.Selected)
	if errors.Is(err, models.ErrRemoveSelected) {
		c.logger.Info("refusing to remove selected ide", "name", a.Name)
		c.notifyError(msgRemoveSelected)
		return nil
	}
	if err != nil {
		return err
	}

	if err := settings.SetIDEs(c.store, ides); err != nil {
		return fmt.Errorf("save ide configurations: %w", err)
	}
	c.logger.Info("ide removed", "name", a.Name, "remaining", len(ides))

	if err := c.rerender(); err != nil {
		return err
	}
	c.notifyInfo(msgRemoved)
	c.updateStatusBar(ctx)
	return nil
}

func (c *Controller) selectIDE(ctx context.Context, a SelectIDE) error {
	if err := settings.SetSelected(c.store, a.Name); err != nil {
		return fmt.Errorf("save selected ide: %w", err)
	}
	c.logger.Info("ide selected", "name", a.Name)

	if err := c.rerender(); err != nil {
		return err
	}
	c.updateStatusBar(ctx)
	return nil
}

func (c *Controller) selectPath(ctx context.Context, a SelectPath) error {
	opts := host.FileDialogOptions{
		CanSelectFiles: true,
		OpenLabel:      selectPathLabel,
	}
	if c.platform.IsMac() {
		opts.Title = selectPathTitleMac
	}

	paths, err := c.showOpenDialog(ctx, opts)
	if err != nil || len(paths) == 0 {
		return err
	}

	c.logger.Debug("command path picked", "ideType", a.IDEType, "path", paths[0])
	if s := c.Surface(); s != nil {
		s.Post(SetPath{Path: paths[0]})
	}
	return nil
}

func (c *Controller) selectRootFolder(ctx context.Context) error {
	paths, err := c.showOpenDialog(ctx, host.FileDialogOptions{
		CanSelectFolders: true,
		OpenLabel:        selectFolderLabel,
		Title:            selectFolderTitle,
	})
	if err != nil || len(paths) == 0 {
		return err
	}

	if err := settings.SetRootProjectPath(c.store, paths[0]); err != nil {
		return fmt.Errorf("save root project path: %w", err)
	}
	c.logger.Info("root project path picked", "path", paths[0])
	return c.rerender()
}

func (c *Controller) saveRootPath(a SaveRootProjectPath) error {
	path := ""
	if a.Path != nil {
		path = *a.Path
	}

	if err := settings.SetRootProjectPath(c.store, path); err != nil {
		return fmt.Errorf("save root project path: %w", err)
	}
	c.logger.Info("root project path saved", "path", path)

	// notices follow the render so a reloading page still shows them
	if err := c.rerender(); err != nil {
		return err
	}
	c.notifyInfo(msgRootPathSaved)
	return nil
}

func (c *Controller) showOpenDialog(ctx context.Context, opts host.FileDialogOptions) ([]string, error) {
	if c.dialogs == nil {
		return nil, errors.New("no dialog service available")
	}
	paths, err := c.dialogs.ShowOpenDialog(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open dialog: %w", err)
	}
	return paths, nil
}

// rerender reads the store again and replaces the surface content.
func (c *Controller) rerender() error {
	s := c.Surface()
	if s == nil {
		return nil
	}

	snap, err := settings.Read(c.store)
	if err != nil {
		return err
	}
	s.Render(c.buildView(snap))
	return nil
}

func (c *Controller) buildView(snap settings.Snapshot) view.Model {
	m := view.Build(snap.IDEs, snap.Selected, c.platform, snap.RootProjectPath)
	if c.rootHint != "" {
		m.RootPathPlaceholder = c.rootHint
	}
	return m
}

func (c *Controller) updateStatusBar(ctx context.Context) {
	if c.commands == nil {
		return
	}
	if err := c.commands.Execute(ctx, commands.UpdateStatusBar); err != nil {
		c.logger.Warn("status bar refresh failed", "error", err)
	}
}

func (c *Controller) notifyInfo(msg string) {
	if c.notifier != nil {
		c.notifier.Info(msg)
	}
}

func (c *Controller) notifyError(msg string) {
	if c.notifier != nil {
		c.notifier.Error(msg)
	}
}
