package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nachoal/lingo-tutor-go/config"
	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/llm/mock"
	"github.com/nachoal/lingo-tutor-go/llm/openai"
	"github.com/nachoal/lingo-tutor-go/vault"
)

var (
	configPath string
	provider   string
	model      string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "lingo",
		Short: "Language tutor with tool-driven learner state",
		Long:  "Lingo - a conversational French and German tutor served over HTTP or in the terminal",
		RunE:  runChat,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.lingo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "LLM provider (openai, deepseek, groq)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	addChatFlags(rootCmd)

	rootCmd.AddCommand(serveCmd, chatCmd, queryCmd, toolsCmd, authCmd, promptCmd, assessCmd, configCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads settings, letting the persistent flags win over file and env
func loadConfig(cmd *cobra.Command) (*config.Manager, *config.Config, error) {
	if verbose {
		os.Setenv("LINGO_DEBUG", "true")
	}

	m, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	flags := cmd.Root().PersistentFlags()
	v := m.Viper()
	if err := v.BindPFlag("llm.provider", flags.Lookup("provider")); err != nil {
		return nil, nil, err
	}
	if err := v.BindPFlag("llm.model", flags.Lookup("model")); err != nil {
		return nil, nil, err
	}

	cfg, err := m.Load()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		log.Printf("[Config] provider=%s model=%s history=%s", cfg.LLM.Provider, cfg.LLM.Model, cfg.History.Driver)
	}
	return m, cfg, nil
}

func openVault(cfg *config.Config) *vault.Vault {
	if !cfg.Vault.Enabled {
		return nil
	}
	v, err := vault.New(cfg.Vault.Service, cfg.DataDir)
	if err != nil {
		log.Printf("[Vault] unavailable: %v", err)
		return nil
	}
	return v
}

// resolveAPIKey prefers configuration and falls back to the vault
func resolveAPIKey(cfg *config.Config, v *vault.Vault) string {
	if cfg.LLM.APIKey != "" || v == nil {
		return cfg.LLM.APIKey
	}
	key, err := v.Get(vault.APIKeyName)
	if err != nil {
		if !errors.Is(err, vault.ErrNotFound) {
			log.Printf("[Vault] failed to read API key: %v", err)
		}
		return ""
	}
	return key
}

// clientFactory builds OpenAI-compatible clients for the configured provider
func clientFactory(cfg *config.Config) func(apiKey string) (llm.Client, error) {
	return func(apiKey string) (llm.Client, error) {
		baseURL := cfg.LLM.BaseURL
		if baseURL == "" {
			var err error
			if baseURL, err = openai.BaseURLForProvider(cfg.LLM.Provider); err != nil {
				return nil, err
			}
		}
		c, err := openai.NewClient(
			llm.WithAPIKey(apiKey),
			llm.WithBaseURL(baseURL),
			llm.WithModel(cfg.LLM.Model),
			llm.WithTimeout(cfg.LLM.Timeout),
			llm.WithOrganization(cfg.LLM.Org),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// terminalClient returns the live client, or canned replies when no real key is set
func terminalClient(cfg *config.Config, apiKey string) (llm.Client, error) {
	if apiKey == "" || apiKey == cfg.Mock.SentinelKey {
		fmt.Fprintln(os.Stderr, "No API key configured; using canned demo replies. Run `lingo auth set-key` to go live.")
		return mock.NewClient(), nil
	}
	return clientFactory(cfg)(apiKey)
}
