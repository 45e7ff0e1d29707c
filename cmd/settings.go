package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change vault settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current vault settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.settings.Get()
		table := ui.Table([]string{"Setting", "Value"})
		table.Append([]string{"require_confirmations", strconv.FormatBool(s.RequireConfirmations)})
		table.Append([]string{"confirmation_timeout_minutes", strconv.Itoa(s.ConfirmationTimeoutMinutes)})
		return table.Render()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a vault setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		key, value := args[0], args[1]
		var apply func(*models.VaultSettings)
		switch key {
		case "require_confirmations":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("require_confirmations wants true or false, got %q", value)
			}
			apply = func(s *models.VaultSettings) { s.RequireConfirmations = b }
		case "confirmation_timeout_minutes":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return fmt.Errorf("confirmation_timeout_minutes wants a positive integer, got %q", value)
			}
			apply = func(s *models.VaultSettings) { s.ConfirmationTimeoutMinutes = n }
		default:
			return fmt.Errorf("unknown setting: %s", key)
		}

		if _, err := a.settings.Update(apply); err != nil {
			return err
		}
		ui.Success("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
