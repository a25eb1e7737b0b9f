package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nachoal/lingo-tutor-go/agent"
	"github.com/nachoal/lingo-tutor-go/assessment"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/scenario"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
	"github.com/nachoal/lingo-tutor-go/vault"
)

var (
	queryCmd = &cobra.Command{
		Use:   "query [message]",
		Short: "Send a one-shot message to the tutor without entering the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}

	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "Tutor tool commands",
	}

	listToolsCmd = &cobra.Command{
		Use:   "list",
		Short: "List the tools the tutor can call",
		Run:   listTools,
	}

	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
	}

	setKeyCmd = &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the OpenAI API key in the system keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSetKey,
	}

	clearKeyCmd = &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the stored API key",
		RunE:  runClearKey,
	}

	promptCmd = &cobra.Command{
		Use:   "prompt",
		Short: "Tutor prompt commands",
	}

	composeCmd = &cobra.Command{
		Use:   "compose",
		Short: "Print the tutor prompt for a mode and slider settings",
		RunE:  runCompose,
	}

	scenarioPromptCmd = &cobra.Command{
		Use:   "scenario [id]",
		Short: "Print the role-play prompt for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioPrompt,
	}

	assessCmd = &cobra.Command{
		Use:   "assess [file]",
		Short: "Score an assessment text (reads stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAssess,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	setDefaultCmd = &cobra.Command{
		Use:   "set-default",
		Short: "Persist --provider and --model as defaults",
		RunE:  runSetDefault,
	}

	composeCfg   prompt.TutorConfig
	language     string
	scenarioID   string
	saveAssessed bool
)

func init() {
	toolsCmd.AddCommand(listToolsCmd)
	authCmd.AddCommand(setKeyCmd, clearKeyCmd)
	promptCmd.AddCommand(composeCmd, scenarioPromptCmd)
	configCmd.AddCommand(setDefaultCmd)

	queryCmd.Flags().StringVar(&chatMode, "mode", "", "Tutor mode preset (beginner, challenger, casual)")

	composeCmd.Flags().StringVar((*string)(&composeCfg.Mode), "mode", string(prompt.ModeBeginner), "Mode preset")
	composeCmd.Flags().IntVar(&composeCfg.HintFrequency, "hints", prompt.DefaultSliderValue, "Hint frequency 1-10")
	composeCmd.Flags().IntVar(&composeCfg.Strictness, "strictness", prompt.DefaultSliderValue, "Correction strictness 1-10")
	composeCmd.Flags().IntVar(&composeCfg.FeedbackDepth, "feedback", prompt.DefaultSliderValue, "Feedback depth 1-10")

	scenarioPromptCmd.Flags().StringVar(&language, "language", "french", "Practice language")

	assessCmd.Flags().StringVar(&language, "language", "french", "Practice language")
	assessCmd.Flags().StringVar(&scenarioID, "scenario", "", "Scenario the assessment belongs to")
	assessCmd.Flags().BoolVar(&saveAssessed, "save", false, "Record the result in the history store")
}

func runQuery(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := terminalClient(cfg, resolveAPIKey(cfg, openVault(cfg)))
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	systemPrompt, err := tutorPrompt(cfg, chatMode)
	if err != nil {
		return err
	}

	store := session.New()
	o := agent.New(client, registry.NewDefault(store),
		agent.WithModel(cfg.LLM.Model),
		agent.WithTemperature(float32(cfg.LLM.Temperature)),
		agent.WithMaxTokens(cfg.LLM.MaxTokens),
		agent.WithVerbose(verbose),
	)

	reply, err := agent.NewConversation(o, systemPrompt, true).Send(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		if agent.IsInvalidCredential(err) {
			return fmt.Errorf("invalid API key, run `lingo auth set-key`: %w", err)
		}
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(reply.Content())

	if verbose {
		for _, tr := range reply.ToolResults {
			fmt.Printf("[%s] %s\n", tr.Name, tr.Result.String())
		}
		if reply.Usage != nil {
			fmt.Printf("\n[Tokens: %d, rounds: %d]\n", reply.Usage.TotalTokens, reply.Rounds)
		}
	}
	return nil
}

func listTools(cmd *cobra.Command, args []string) {
	reg := registry.NewDefault(session.New())

	fmt.Println("Available tools:")
	for _, name := range reg.List() {
		tool, err := reg.Get(string(name))
		if err != nil {
			continue
		}
		fmt.Printf("  %-32s %s\n", name, tool.Description())
	}
}

func runSetKey(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	v, err := vault.New(cfg.Vault.Service, cfg.DataDir)
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Print("OpenAI API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = string(raw)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key is required")
	}
	if err := v.Set(vault.APIKeyName, key); err != nil {
		return err
	}
	fmt.Println("API key stored.")
	return nil
}

func runClearKey(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	v, err := vault.New(cfg.Vault.Service, cfg.DataDir)
	if err != nil {
		return err
	}
	if err := v.Delete(vault.APIKeyName); err != nil {
		return err
	}
	fmt.Println("API key removed.")
	return nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	p, err := prompt.Compose(composeCfg)
	if err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

func runScenarioPrompt(cmd *cobra.Command, args []string) error {
	catalog := scenario.Default()
	if _, ok := catalog.Get(args[0]); !ok {
		return fmt.Errorf("unknown scenario: %s", args[0])
	}
	fmt.Println(prompt.ForScenario(catalog, args[0], language))
	return nil
}

func runAssess(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read assessment: %w", err)
	}

	meta := assessment.Meta{Language: language, Scenario: scenarioID, Date: time.Now()}
	if sc, ok := scenario.Default().Get(scenarioID); ok {
		meta.ScenarioName = sc.Name
	}
	result := assessment.Analyze(string(text), meta)

	fmt.Printf("Fluency:    %2d/10 (%s)\n", result.Fluency, assessment.LetterGrade(float64(result.Fluency)))
	fmt.Printf("Vocabulary: %2d/10 (%s)\n", result.Vocabulary, assessment.LetterGrade(float64(result.Vocabulary)))
	fmt.Printf("Grammar:    %2d/10 (%s)\n", result.Grammar, assessment.LetterGrade(float64(result.Grammar)))
	fmt.Printf("Speed:      %2d/10 (%s)\n", result.Speed, assessment.LetterGrade(float64(result.Speed)))
	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for i, r := range result.Recommendations {
			fmt.Printf("%d. %s\n", i+1, r)
		}
	}
	fmt.Printf("\n%s\n", result.Feedback)

	if !saveAssessed {
		return nil
	}

	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	hist, err := history.Open(cfg.History.Driver, cfg.History.DSN, cfg.History.Dir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if err := hist.Save(ctx, &result); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	fmt.Printf("Saved as %s\n", result.ID)
	return nil
}

func runSetDefault(cmd *cobra.Command, args []string) error {
	if provider == "" && model == "" {
		return fmt.Errorf("pass --provider and/or --model")
	}
	manager, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := manager.SetDefaults(cfg.LLM.Provider, cfg.LLM.Model); err != nil {
		return err
	}
	fmt.Printf("Defaults saved to %s: %s / %s\n", manager.Path(), cfg.LLM.Provider, cfg.LLM.Model)
	return nil
}
