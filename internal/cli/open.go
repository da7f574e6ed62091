package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"editorjump/internal/launcher"
	"editorjump/internal/models"
	"editorjump/internal/settings"

	"github.com/spf13/cobra"
)

func newOpenCmd(env environment, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open FILE [LINE]",
		Short: "Open a file in the active IDE",
		Long: `Open FILE in the active IDE, at LINE when given.

The IDE opens the configured root project path, or the git work tree
containing FILE, or the directory of FILE.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			line := 0
			if len(args) == 2 {
				line, err = strconv.Atoi(args[1])
				if err != nil || line < 1 {
					return fmt.Errorf("invalid line %q", args[1])
				}
			}

			a, cleanup, err := env.newApp(modeCommand, f.debug)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := settings.Read(a.store)
			if err != nil {
				return err
			}
			ide, ok := models.Find(snap.IDEs, snap.Selected)
			if !ok {
				return fmt.Errorf("active IDE %q is not configured", snap.Selected)
			}
			inv, err := launcher.Resolve(ide, a.cfg.TargetPlatform())
			if err != nil {
				return fmt.Errorf("%s: %w", ide.Name, err)
			}

			target := launcher.Target{
				Project: launcher.ProjectDir(snap.RootProjectPath, filepath.Dir(file)),
				File:    file,
				Line:    line,
			}
			proc, err := launcher.Launch(cmd.Context(), inv, target)
			if err != nil {
				return err
			}
			a.logger.Debug("launched", "ide", ide.Name, "command", proc.String(), "pid", proc.Process.Pid)
			fmt.Fprintf(cmd.OutOrStdout(), "Opening %s in %s\n", file, ide.Name)
			return proc.Process.Release()
		},
	}
}
