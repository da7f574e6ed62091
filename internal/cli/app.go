package cli

import (
	"context"
	"fmt"
	"log/slog"

	"editorjump/internal/commands"
	"editorjump/internal/config"
	"editorjump/internal/host"
	"editorjump/internal/launcher"
	"editorjump/internal/logging"
	"editorjump/internal/panel"
	"editorjump/internal/settings"
	"editorjump/internal/statusbar"
	"editorjump/internal/tui"
	"editorjump/internal/view"
	"editorjump/internal/web"
)

type runMode int

const (
	modeTUI runMode = iota
	modeWeb
	modeCommand
)

// app is one process worth of wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *settings.FileStore
	registry  *commands.Registry
	indicator *statusbar.Indicator
	rootHint  string
}

func (e environment) newApp(mode runMode, debug bool) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{Mode: logging.ModeCLI, Debug: debug, Output: e.stderr}
	if mode == modeTUI {
		logOpts = logging.Options{Mode: logging.ModeTUI, Debug: debug, LogPath: cfg.LogPath}
	}
	logger, closeLog, err := logging.Init(logOpts)
	if err != nil {
		return nil, nil, err
	}

	if cfg.FirstRun {
		if err := cfg.FileValues().Save(); err != nil {
			logger.Warn("could not write the default config", "path", config.ConfigPath(), "error", err)
		}
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    settings.New(cfg.SettingsPath, logger),
		registry: commands.NewRegistry(),
	}
	a.indicator = statusbar.New(statusbar.Options{
		Store:    a.store,
		Platform: cfg.TargetPlatform(),
		Logger:   logger,
	})
	if wd, err := e.getwd(); err == nil {
		if root := launcher.WorkspaceRoot(wd); root != "" && launcher.HasIdeaDir(root) {
			a.rootHint = root
		}
	}

	logger.Debug("starting", "settings", cfg.SettingsPath, "platform", cfg.TargetPlatform())

	cleanup := func() {
		if err := closeLog(); err != nil {
			fmt.Fprintln(e.stderr, "close log:", err)
		}
	}
	return a, cleanup, nil
}

func (a *app) controller(dialogs host.Dialogs, notifier host.Notifier, factory panel.SurfaceFactory) *panel.Controller {
	return panel.New(panel.Options{
		Store:        a.store,
		Dialogs:      dialogs,
		Notifier:     notifier,
		Commands:     a.registry,
		Platform:     a.cfg.TargetPlatform(),
		Logger:       a.logger,
		Factory:      factory,
		RootPathHint: a.rootHint,
	})
}

// watch refreshes the status indicator when the settings file is changed
// by another process.
func (a *app) watch(ctx context.Context) {
	w := settings.NewWatcher(a.store.Path(), settings.DefaultWatchInterval)
	w.Run(ctx, func() {
		a.logger.Debug("settings changed on disk", "path", a.store.Path())
		if err := a.registry.Execute(ctx, commands.UpdateStatusBar); err != nil {
			a.logger.Warn("status refresh failed", "error", err)
		}
	})
}

func (e environment) runTUI(ctx context.Context, a *app, f *rootFlags, version string) error {
	h := tui.NewHost(tui.Options{
		Logger:         a.logger,
		Version:        version,
		Settings:       a.store,
		HighlightStyle: a.cfg.HighlightStyle,
	})
	h.SetStatus(a.indicator.Text())
	defer a.indicator.Subscribe(h.SetStatus)()

	ctrl := a.controller(h, h, h.Factory())
	s, err := ctrl.Open(ctx)
	if err != nil {
		return err
	}
	if f.highlight != "" {
		ctrl.Highlight(f.highlight)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.watch(ctx)

	return s.(*tui.Surface).Run()
}

func (e environment) runWeb(ctx context.Context, a *app, f *rootFlags) error {
	addr := f.web
	if addr == webDefault {
		addr = a.cfg.WebAddr
	}
	srv := web.NewServer(web.Options{Addr: addr, Logger: a.logger})
	defer a.indicator.Subscribe(func(text string) {
		a.logger.Info("active IDE changed", "status", text)
	})()

	ctrl := a.controller(host.NativeDialogs{}, srv, srv.Factory())
	s, err := ctrl.Open(ctx)
	if err != nil {
		return err
	}
	defer s.(*web.Surface).Close()
	if f.highlight != "" {
		ctrl.Highlight(f.highlight)
	}

	go a.watch(ctx)

	return srv.Serve(ctx, func(url string) {
		fmt.Fprintf(e.stdout, "%s at %s\n", view.Title, url)
		if f.noBrowser {
			return
		}
		if err := e.openBrowser(url); err != nil {
			a.logger.Warn("could not open a browser", "url", url, "error", err)
		}
	})
}
