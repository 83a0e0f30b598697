package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/layout"
)

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <output>",
		Short: "Enable an output at its last known position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setEnabled(cmd, args[0], true)
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <output>",
		Short: "Disable an output, keeping its position for later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setEnabled(cmd, args[0], false)
		},
	}
}

func setEnabled(cmd *cobra.Command, name string, enabled bool) error {
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
	outputs, err := a.liveOutputs(cmd.Context(), conn, store, true)
	if err != nil {
		return err
	}

	l := layout.New(outputs)
	l.Focus = layout.FocusList
	if !l.SelectName(name) {
		return fmt.Errorf("no output named %q", name)
	}
	sel := l.SelectedOutput()
	if sel.Enabled != enabled {
		if !l.ToggleEnabled() {
			return fmt.Errorf("cannot %s %s: no valid arrangement", verb(enabled), name)
		}
	}
	if err := a.commit(cmd.Context(), conn, store, l.Outputs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb(enabled)+"d", name)
	return nil
}

func verb(enabled bool) string {
	if enabled {
		return "enable"
	}
	return "disable"
}

func newWorkspaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workspace <n> <output>",
		Short: "Assign workspace n to an output",
		Long: `Workspace assignment is exclusive: assigning workspace n to an output
removes n from every other output before committing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("workspace must be a positive number, got %q", args[0])
			}
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
			outputs, err := a.liveOutputs(cmd.Context(), conn, store, true)
			if err != nil {
				return err
			}

			l := layout.New(outputs)
			l.Focus = layout.FocusList
			if !l.SelectName(args[1]) {
				return fmt.Errorf("no output named %q", args[1])
			}
			l.AssignWorkspace(n)
			if err := a.commit(cmd.Context(), conn, store, l.Outputs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace %d on %s\n", n, args[1])
			return nil
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-commit the most recently applied arrangement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if _, err := store.MostRecentApply(); err != nil {
				return fmt.Errorf("nothing to reload: no arrangement has been applied yet")
			}
			conn, err := a.openConn()
			if err != nil {
				return err
			}
			defer conn.Close()
			outputs, err := a.liveOutputs(cmd.Context(), conn, store, true)
			if err != nil {
				return err
			}
			if err := a.commit(cmd.Context(), conn, store, outputs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reloaded last applied arrangement")
			return nil
		},
	}
}
