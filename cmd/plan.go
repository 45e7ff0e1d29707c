package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/agent"
	"github.com/quillnotes/quill/internal/output"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage multi-step plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		plans := a.agent.Plans()
		if len(plans) == 0 {
			ui.Info("No plans")
			return nil
		}
		table := ui.Table([]string{"ID", "Title", "Status", "Steps", "Created"})
		for _, p := range plans {
			completed, total := p.Progress()
			table.Append([]string{
				p.PlanID,
				p.Title,
				output.PlanStatusColor(string(p.Status)),
				fmt.Sprintf("%d/%d", completed, total),
				p.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		return table.Render()
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan's steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		plan := a.agent.GetPlan(args[0])
		if plan == nil {
			return fmt.Errorf("plan not found: %s", args[0])
		}
		ui.Say(agent.RenderPlan(plan))
		return nil
	},
}

var planApproveCmd = &cobra.Command{
	Use:   "approve <plan-id>",
	Short: "Approve a pending plan and run it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.agent.ApprovePlan(args[0]); err != nil {
			return err
		}
		plan, err := a.agent.ExecutePlan(cmd.Context(), args[0], chatProgress)
		if err != nil {
			return err
		}
		completed, total := plan.Progress()
		ui.Success("Plan %s finished: %d/%d steps completed", plan.PlanID, completed, total)
		ui.Say(agent.RenderPlan(plan))
		return nil
	},
}

var planRejectCmd = &cobra.Command{
	Use:   "reject <plan-id>",
	Short: "Reject a pending plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		plan, err := a.agent.RejectPlan(args[0])
		if err != nil {
			return err
		}
		ui.Success("Plan %s cancelled: %s", plan.PlanID, plan.Title)
		return nil
	},
}

func init() {
	planCmd.AddCommand(planListCmd, planShowCmd, planApproveCmd, planRejectCmd)
	rootCmd.AddCommand(planCmd)
}
