package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage conversation history",
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the conversation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.agent.ClearHistory(a.identity); err != nil {
			return err
		}
		ui.Success("History cleared for %s", a.identity)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
