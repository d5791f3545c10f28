package cli

import (
	"github.com/spf13/cobra"

	"github.com/lazycommit/lazycommit/internal/config"
	"github.com/lazycommit/lazycommit/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long: `Expose commit-message drafting and token counting as MCP tools so editor
agents can call them.

Register with a client using a command entry like:
  {"command": "lazycommit", "args": ["mcp"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}
			settings, err := config.ResolveSettings(gcfg, config.Overrides{})
			if err != nil {
				return err
			}
			return mcp.NewServer(".", settings, version).Serve()
		},
	}
}
