package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/llm"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vault index",
}

var indexRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rescan the vault and rebuild the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.indexer.RebuildCount(cmd.Context())
		if err != nil {
			return err
		}
		ui.Success("Vault index rebuilt: %d notes", count)
		return nil
	},
}

var indexSummarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate model summaries for notes missing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// Build a service with the summarizer attached regardless of
		// the index.summarize config toggle.
		summarizer := index.NewSummarizer(llm.NewAnthropicClient(
			viper.GetString("anthropic.api_key"),
			viper.GetString("anthropic.summarizer_model")))
		svc := index.NewService(a.vault, a.cache, summarizer)

		count, err := svc.Summarize(cmd.Context())
		if err != nil {
			return err
		}
		ui.Success("Summarized %d notes", count)
		return nil
	},
}

func init() {
	indexCmd.AddCommand(indexRefreshCmd, indexSummarizeCmd)
	rootCmd.AddCommand(indexCmd)
}
