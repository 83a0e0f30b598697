package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/preset"
	"github.com/1broseidon/monarch/internal/reconcile"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			store, err := a.openStore()
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			writePresets(cmd.OutOrStdout(), store, names)
			return nil
		},
	}
}

func writePresets(w io.Writer, store *preset.Store, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "no presets saved")
		return
	}
	for i, name := range names {
		slot := "   "
		if i < 9 {
			slot = fmt.Sprintf("[%d]", i+1)
		}
		line := fmt.Sprintf("%s %s", slot, nameColor.Sprint(name))
		if p, err := store.Load(name); err == nil {
			line += ghostColor.Sprintf("  %d outputs, saved %s",
				len(p.Outputs), p.SavedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w, line)
	}
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a saved preset to the display server",
		Long: `Apply reconciles the named preset against the live output set and
commits the result immediately. Recorded positions, scales, and
workspace assignments are used where the output still supports them;
outputs the preset does not know keep their current placement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			store, err := a.openStore()
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				if errors.Is(err, preset.ErrNotFound) {
					return fmt.Errorf("no preset named %q", args[0])
				}
				return err
			}
			conn, err := a.openConn()
			if err != nil {
				return err
			}
			defer conn.Close()
			outputs, err := a.liveOutputs(cmd.Context(), conn, store, false)
			if err != nil {
				return err
			}
			outputs = reconcile.Merge(outputs, p.Outputs, a.logger)
			if err := a.commit(cmd.Context(), conn, store, outputs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied preset %q\n", args[0])
			return nil
		},
	}
}

func newSaveCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current arrangement as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			conn, err := a.openConn()
			if err != nil {
				return err
			}
			defer conn.Close()
			store, err := a.openStore()
			if err != nil {
				return err
			}
			outputs, err := a.liveOutputs(cmd.Context(), conn, store, false)
			if err != nil {
				return err
			}
			stem, err := store.Save(args[0], outputs, force)
			if err != nil {
				if errors.Is(err, preset.ErrExists) {
					return fmt.Errorf("preset %q exists; pass --force to overwrite", stem)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved preset %q\n", stem)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing preset")
	return cmd
}
