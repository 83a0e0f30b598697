package cli

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve monitor arrangement tools over the Model Context Protocol",
		Long: `Mcp runs an MCP server on stdio, exposing output enumeration, preset
management, and output configuration as tools. Logs go to stderr; the
protocol owns stdout.`,
		Args: cobra.NoArgs,
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
			return mcp.NewServer(conn, store, a.logger).Run(cmd.Context())
		},
	}
}
