// Package cmd implements the quill CLI.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quillnotes/quill/internal/agent"
	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/llm"
	"github.com/quillnotes/quill/internal/output"
	"github.com/quillnotes/quill/internal/store"
	"github.com/quillnotes/quill/internal/tools"
	"github.com/quillnotes/quill/internal/vault"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize
// and assembled lazily by the commands that need them.
var (
	ui *output.UI

	verbose   bool
	vaultFlag string
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - LLM assistant for a Markdown note vault",
	Long: `quill is a chat assistant that reads, searches, and edits the Markdown
notes in a vault through a fixed set of tools, with confirmation gating
for destructive actions and an approval workflow for multi-step plans.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Build info, set by goreleaser ldflags via Execute.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "", "Vault directory (overrides config)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/quill/config.yaml)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "quill"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("QUILL")
	viper.AutomaticEnv()

	viper.SetDefault("vault_path", "")
	viper.SetDefault("identity", "cli")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("anthropic.summarizer_model", "claude-haiku-4-5-20251001")
	viper.SetDefault("history.max_messages", store.DefaultMaxMessages)
	viper.SetDefault("plans.max_age_hours", 24)
	viper.SetDefault("agent.max_tool_calls", agent.DefaultMaxToolCalls)
	viper.SetDefault("index.summarize", false)

	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// app bundles everything a command may need for one vault.
type app struct {
	vault    *vault.Vault
	registry *tools.Registry
	agent    *agent.Agent
	indexer  *index.Service
	history  *store.HistoryStore
	settings *store.SettingsStore
	identity string
	cache    *index.Cache
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
}

// vaultPath resolves the vault directory: --vault flag, then config, then
// the current working directory.
func vaultPath() (string, error) {
	if vaultFlag != "" {
		return vaultFlag, nil
	}
	if p := viper.GetString("vault_path"); p != "" {
		return p, nil
	}
	return os.Getwd()
}

// buildApp assembles the vault, stores, index, tools, and agent.
func buildApp(cmd *cobra.Command) (*app, error) {
	dir, err := vaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault directory not found: %s", dir)
	}

	v, err := vault.New(dir)
	if err != nil {
		return nil, err
	}

	cache, err := index.OpenCache(filepath.Join(store.StateDir(v.Root()), "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open index cache: %w", err)
	}
	if err := cache.Migrate(cmd.Context()); err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("migrate index cache: %w", err)
	}

	apiKey := viper.GetString("anthropic.api_key")
	client := llm.NewAnthropicClient(apiKey, viper.GetString("anthropic.model"))

	var summarizer *index.Summarizer
	if viper.GetBool("index.summarize") {
		summarizer = index.NewSummarizer(
			llm.NewAnthropicClient(apiKey, viper.GetString("anthropic.summarizer_model")))
	}
	indexer := index.NewService(v, cache, summarizer)

	settings := store.NewSettingsStore(v.Root())
	tracker := agent.NewTaskTracker()
	registry := tools.NewStandardRegistry(tools.RegistryDeps{
		Vault:         v,
		Settings:      settings,
		RebuildIndex:  indexer.RebuildCount,
		OnTasksUpdate: tracker.Update,
	})

	history := store.NewHistoryStore(v.Root(), viper.GetInt("history.max_messages"))
	ag := agent.New(agent.Config{
		Client:        client,
		Registry:      registry,
		Vault:         v,
		History:       history,
		Confirmations: store.NewConfirmationStore(v.Root()),
		Plans:         store.NewPlanStore(v.Root()),
		Settings:      settings,
		VaultContext:  indexer,
		Tasks:         tracker,
		MaxToolCalls:  viper.GetInt("agent.max_tool_calls"),
		PlanMaxAge:    time.Duration(viper.GetInt("plans.max_age_hours")) * time.Hour,
	})

	return &app{
		vault:    v,
		registry: registry,
		agent:    ag,
		indexer:  indexer,
		history:  history,
		settings: settings,
		identity: viper.GetString("identity"),
		cache:    cache,
	}, nil
}
