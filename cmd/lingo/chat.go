package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nachoal/lingo-tutor-go/agent"
	"github.com/nachoal/lingo-tutor-go/config"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
	"github.com/nachoal/lingo-tutor-go/tui"
	"github.com/nachoal/lingo-tutor-go/vocabexport"
)

var (
	chatMode     string
	chatTheme    string
	vocabImport  string
	vocabExport  string
	continueLast bool
	resumeID     string

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Practise with the tutor in the terminal",
		RunE:  runChat,
	}
)

func init() {
	addChatFlags(chatCmd)
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&chatMode, "mode", "", "Tutor mode preset (beginner, challenger, casual)")
	cmd.Flags().StringVar(&chatTheme, "theme", "classic", "Color theme (classic, bistro)")
	cmd.Flags().StringVar(&vocabImport, "vocab", "", "Load vocabulary from an .xlsx file before starting")
	cmd.Flags().StringVar(&vocabExport, "export", "", "Write the vocabulary to an .xlsx file on exit")
	cmd.Flags().BoolVarP(&continueLast, "continue", "c", false, "Continue the last saved conversation")
	cmd.Flags().StringVarP(&resumeID, "resume", "r", "", "Resume a saved conversation by id")
}

func runChat(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := terminalClient(cfg, resolveAPIKey(cfg, openVault(cfg)))
	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
	}
	defer client.Close()

	systemPrompt, err := tutorPrompt(cfg, chatMode)
	if err != nil {
		return err
	}

	store := session.New()
	if vocabImport != "" {
		n, err := importVocabulary(store, vocabImport)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d words from %s\n", n, vocabImport)
	}

	transcripts, err := history.NewFileStore(cfg.History.Dir)
	if err != nil {
		return fmt.Errorf("failed to open transcripts: %w", err)
	}

	var resume *history.Transcript
	switch {
	case resumeID != "":
		if resume, err = transcripts.LoadTranscript(resumeID); err != nil {
			return err
		}
	case continueLast:
		resume, err = transcripts.LastTranscript()
		if errors.Is(err, history.ErrNotFound) {
			fmt.Println("No saved conversation; starting a new one.")
		} else if err != nil {
			return err
		}
	}

	orchestrator := agent.New(client, registry.NewDefault(store),
		agent.WithModel(cfg.LLM.Model),
		agent.WithTemperature(float32(cfg.LLM.Temperature)),
		agent.WithMaxTokens(cfg.LLM.MaxTokens),
		agent.WithVerbose(verbose),
	)
	conv := agent.NewConversation(orchestrator, systemPrompt, true)

	app := tui.New(conv, store, tui.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Theme:       chatTheme,
		Transcripts: transcripts,
		Resume:      resume,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if vocabExport != "" {
		if err := vocabexport.WriteFile(vocabExport, store.Vocabulary()); err != nil {
			return fmt.Errorf("failed to export vocabulary: %w", err)
		}
		fmt.Printf("Vocabulary written to %s\n", vocabExport)
	}
	return nil
}

// tutorPrompt picks a mode preset, then the configured prompt, then the built-in one
func tutorPrompt(cfg *config.Config, mode string) (string, error) {
	if mode != "" {
		return prompt.Compose(prompt.TutorConfig{Mode: prompt.Mode(mode)})
	}
	if cfg.Tutor.Prompt != "" {
		return cfg.Tutor.Prompt, nil
	}
	return prompt.DefaultTutorPrompt, nil
}

func importVocabulary(store *session.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	entries, err := vocabexport.Read(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	added := 0
	for _, in := range entries {
		_, exists, err := store.AddVocab(in)
		if err != nil {
			return added, err
		}
		if !exists {
			added++
		}
	}
	return added, nil
}
