package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/agent"
	"github.com/quillnotes/quill/internal/models"
	"github.com/quillnotes/quill/internal/output"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the vault assistant",
	Long: `Start an interactive chat session, or send a single message with -m.

Inside the session:
  /clear    forget the conversation history
  /refresh  rebuild the vault index
  /help     show commands
  exit      leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if chatMessage != "" {
			return chatOnce(cmd, a, chatMessage)
		}
		return chatREPL(cmd, a)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send one message and exit")
	rootCmd.AddCommand(chatCmd)
}

func chatOnce(cmd *cobra.Command, a *app, text string) error {
	result, err := a.agent.ProcessTurn(cmd.Context(), a.identity, text, chatProgress)
	if err != nil {
		return err
	}
	presentTurn(a, result)
	return nil
}

func chatREPL(cmd *cobra.Command, a *app) error {
	ui.Info("Chatting with vault %s (exit to quit, /help for commands)", output.Cyan(a.vault.Root()))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(ui.Out, output.Green("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit", line == "quit":
			return nil
		case line == "/help":
			ui.Info("/clear forget history, /refresh rebuild index, exit to quit")
			continue
		case line == "/clear":
			if err := a.agent.ClearHistory(a.identity); err != nil {
				ui.Error("clear history: %v", err)
			} else {
				ui.Success("History cleared")
			}
			continue
		case line == "/refresh":
			count, err := a.indexer.RebuildCount(cmd.Context())
			if err != nil {
				ui.Error("refresh index: %v", err)
			} else {
				ui.Success("Vault index rebuilt: %d notes", count)
			}
			continue
		}

		if handled := handlePlanDecision(cmd, a, line); handled {
			continue
		}

		result, err := a.agent.ProcessTurn(cmd.Context(), a.identity, line, chatProgress)
		if err != nil {
			ui.Error("%v", err)
			continue
		}
		presentTurn(a, result)
	}
}

// handlePlanDecision intercepts approve/reject while a plan is pending.
func handlePlanDecision(cmd *cobra.Command, a *app, line string) bool {
	pending := a.agent.PendingPlan(a.identity)
	if pending == nil {
		return false
	}
	switch strings.ToLower(line) {
	case "approve", "yes", "y":
		if _, err := a.agent.ApprovePlan(pending.PlanID); err != nil {
			ui.Error("approve plan: %v", err)
			return true
		}
		plan, err := a.agent.ExecutePlan(cmd.Context(), pending.PlanID, chatProgress)
		if err != nil {
			ui.Error("execute plan: %v", err)
			return true
		}
		completed, total := plan.Progress()
		ui.Success("Plan %s finished: %d/%d steps completed", plan.PlanID, completed, total)
		ui.Say(agent.RenderPlan(plan))
		return true
	case "reject", "no", "n":
		if _, err := a.agent.RejectPlan(pending.PlanID); err != nil {
			ui.Error("reject plan: %v", err)
			return true
		}
		ui.Success("Plan %s cancelled", pending.PlanID)
		return true
	}
	return false
}

// presentTurn prints the assistant's answer and resolves pending
// confirmations interactively.
func presentTurn(a *app, result *agent.TurnResult) {
	if result.Text != "" {
		ui.Say(result.Text)
	}
	for _, pending := range result.Confirmations {
		resolveConfirmation(a, pending)
	}
}

func resolveConfirmation(a *app, pending models.PendingConfirmation) {
	ui.Warning("Pending action %s: %s", output.Cyan(pending.ConfirmationID), pending.Message)
	fmt.Fprint(ui.Out, "Approve? [y/N] ")

	scanner := bufio.NewScanner(os.Stdin)
	answer := ""
	if scanner.Scan() {
		answer = strings.ToLower(strings.TrimSpace(scanner.Text()))
	}
	if answer != "y" && answer != "yes" {
		if msg, err := a.agent.RejectAction(pending.ConfirmationID); err == nil {
			ui.Info("%s", msg)
		}
		return
	}
	outcome, err := a.agent.ConfirmAction(rootCmd.Context(), pending.ConfirmationID)
	if err != nil {
		ui.Error("confirm: %v", err)
		return
	}
	if outcome.Success {
		ui.Success("%s", outcome.Message)
	} else {
		ui.Error("%s", outcome.Message)
	}
}

// chatProgress streams tool activity to the terminal.
func chatProgress(p agent.Progress) {
	switch p.Stage {
	case "tool_start":
		ui.VerboseLog("%s %s", output.Cyan(p.Tool), output.Dim(p.Detail))
	case "tool_end":
		ui.VerboseLog("%s done", output.Cyan(p.Tool))
	case "done":
		for _, line := range p.Tasks.LogLines() {
			ui.VerboseLog("%s", line)
		}
	}
}
