package cli

import (
	"fmt"
	"os"

	"editorjump/internal/launcher"
	"editorjump/internal/models"
	"editorjump/internal/settings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatusCmd(env environment, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the active IDE and the command that opens it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := env.newApp(modeCommand, f.debug)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.indicator.Refresh(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.indicator.Text())

			snap, err := settings.Read(a.store)
			if err != nil {
				return err
			}
			if ide, ok := models.Find(snap.IDEs, snap.Selected); ok {
				if inv, err := launcher.Resolve(ide, a.cfg.TargetPlatform()); err == nil {
					fmt.Fprintf(out, "Command:  %s\n", inv.String())
				} else {
					fmt.Fprintf(out, "Command:  %v\n", err)
				}
			}
			if snap.RootProjectPath != "" {
				fmt.Fprintf(out, "Project:  %s\n", snap.RootProjectPath)
			}
			fmt.Fprintf(out, "Settings: %s\n", a.store.Path())
			if info, err := os.Stat(a.store.Path()); err == nil {
				fmt.Fprintf(out, "Modified: %s\n", humanize.Time(info.ModTime()))
			}
			return nil
		},
	}
}
