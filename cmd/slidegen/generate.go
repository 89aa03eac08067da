package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/session"
	"github.com/capitalize-ai/ai-slides/internal/tui"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a deck from a prompt and write presentation.pptx",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, log, err := newClient()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctrl := session.NewController(api, api, deck.NewPPTXRenderer(), session.NewMemoryRegistry(), log)
			defer ctrl.Close()

			state, err := ctrl.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(model.GenerateResponse{Slides: state.Slides})
			}

			data, _ := ctrl.Artifact()
			path := filepath.Join(outDir, tui.PreviewFilename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSlides(state.Slides)
			fmt.Printf("\n%s %s\n", color.GreenString("✓"), session.Summary(state.Slides))
			if state.SessionID != "" {
				fmt.Printf("Session: %s\n", color.CyanString(state.SessionID))
			}
			fmt.Printf("Saved %s\n", path)
			return nil
		},
	}
}

func printSlides(slides []model.Slide) {
	for i, s := range slides {
		fmt.Printf("%s %s\n", color.New(color.Faint).Sprintf("%2d.", i+1), color.New(color.Bold).Sprint(s.Title))
		for _, c := range s.Content {
			fmt.Printf("    • %s\n", c)
		}
	}
}
