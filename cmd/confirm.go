package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/output"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Manage pending tool confirmations",
}

var confirmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending confirmations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pending := a.agent.PendingConfirmations(a.identity)
		if len(pending) == 0 {
			ui.Info("No pending confirmations")
			return nil
		}
		table := ui.Table([]string{"ID", "Tool", "Message", "Created"})
		for _, c := range pending {
			table.Append([]string{
				output.Cyan(c.ConfirmationID),
				c.ToolName,
				c.Message,
				c.CreatedAt.Local().Format("15:04:05"),
			})
		}
		return table.Render()
	},
}

var confirmYesCmd = &cobra.Command{
	Use:   "yes <confirmation-id>",
	Short: "Approve and execute a pending action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.agent.ConfirmAction(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if result.Success {
			ui.Success("%s", result.Message)
		} else {
			ui.Error("%s", result.Message)
		}
		return nil
	},
}

var confirmNoCmd = &cobra.Command{
	Use:   "no <confirmation-id>",
	Short: "Reject a pending action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		msg, err := a.agent.RejectAction(args[0])
		if err != nil {
			return err
		}
		ui.Success("%s", msg)
		return nil
	},
}

func init() {
	confirmCmd.AddCommand(confirmListCmd, confirmYesCmd, confirmNoCmd)
	rootCmd.AddCommand(confirmCmd)
}
