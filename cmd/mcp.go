package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the vault tools over MCP stdio",
	Long: `Expose every vault tool to a Model Context Protocol host over
stdin/stdout. The host owns the approval UX, so destructive tools run
without the chat confirmation gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return mcp.NewServer(a.registry, a.identity).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
