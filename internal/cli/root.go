// Package cli is the editorjump command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// webDefault is the --web value when no address is given.
const webDefault = "default"

var errNoTerminal = errors.New("the configuration screen needs a terminal; use --web to serve it to a browser")

// environment is what the commands touch outside the process.
type environment struct {
	stdout      io.Writer
	stderr      io.Writer
	isTerminal  func() bool
	openBrowser func(url string) error
	getwd       func() (string, error)
}

func defaultEnvironment() environment {
	return environment{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		isTerminal:  stdoutIsTerminal,
		openBrowser: open.Start,
		getwd:       os.Getwd,
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type rootFlags struct {
	web       string
	highlight string
	noBrowser bool
	debug     bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, defaultEnvironment())
}

func newRootCmd(version string, env environment) *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "editorjump",
		Short: "Configure which JetBrains IDE a jump opens",
		Long: `editorjump keeps the list of JetBrains IDEs a file can be opened in,
the active one, and the root project path passed to it.

Without arguments it opens the configuration screen in the terminal.
With --web it serves the same screen to a browser.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.runRoot(cmd.Context(), f, version)
		},
	}
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	cmd.SetVersionTemplate("editorjump {{.Version}}\n")

	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVar(&f.web, "web", "", "serve the configuration screen to a browser at `ADDR` (default from config)")
	cmd.Flags().Lookup("web").NoOptDefVal = webDefault
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "open the screen with `NAME` highlighted")
	cmd.Flags().BoolVar(&f.noBrowser, "no-browser", false, "with --web, do not open a browser")

	cmd.AddCommand(newOpenCmd(env, f))
	cmd.AddCommand(newStatusCmd(env, f))
	return cmd
}

func (e environment) runRoot(ctx context.Context, f *rootFlags, version string) error {
	mode := modeTUI
	if f.web != "" {
		mode = modeWeb
	} else if !e.isTerminal() {
		return errNoTerminal
	}

	a, cleanup, err := e.newApp(mode, f.debug)
	if err != nil {
		return err
	}
	defer cleanup()

	unregister := a.indicator.Register(ctx, a.registry)
	defer unregister()

	if mode == modeWeb {
		return e.runWeb(ctx, a, f)
	}
	return e.runTUI(ctx, a, f, version)
}
