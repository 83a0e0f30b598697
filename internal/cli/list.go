package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/layout"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected and addressable outputs",
		Args:  cobra.NoArgs,
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
			writeOutputs(cmd.OutOrStdout(), outputs)
			return nil
		},
	}
}

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	onColor    = color.New(color.FgGreen)
	offColor   = color.New(color.FgRed)
	ghostColor = color.New(color.Faint)
	attrColor  = color.New(color.FgYellow)
)

func writeOutputs(w io.Writer, outputs []layout.Output) {
	for i := range outputs {
		o := &outputs[i]
		state := onColor.Sprint("enabled")
		if !o.Enabled {
			state = offColor.Sprint("disabled")
		}
		if !o.Connected {
			state += ghostColor.Sprint(" (disconnected)")
		}
		fmt.Fprintf(w, "%s  %s  %s\n", nameColor.Sprint(o.Name), state, o.Description)
		fmt.Fprintf(w, "    %s at %d,%d scale %s\n",
			attrColor.Sprint(o.ModeText()), o.X, o.Y, attrColor.Sprintf("%.2f", o.Scale))
		if len(o.Workspaces) > 0 {
			fmt.Fprintf(w, "    workspaces %s\n", workspaceList(o.Workspaces))
		}
	}
}

func workspaceList(ws []int) string {
	parts := make([]string, len(ws))
	for i, n := range ws {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}
