package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/tui"
)

func newExportCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Render a stored session to presentation.pptx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, log, err := newClient()
			if err != nil {
				return err
			}
			defer log.Sync()

			item, err := findSession(cmd.Context(), api, args[0])
			if err != nil {
				return err
			}
			data, err := api.Export(cmd.Context(), model.ExportRequest{Title: title, Slides: item.Slides})
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, tui.PreviewFilename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("%s Saved %s (%d slides)\n", color.GreenString("✓"), path, len(item.Slides))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Presentation title stored in the document properties")
	return cmd
}
