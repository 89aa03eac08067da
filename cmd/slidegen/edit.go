package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/session"
	"github.com/capitalize-ai/ai-slides/internal/tui"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit [prompt]",
		Aliases: []string{"tui"},
		Short:   "Open the interactive preview and editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY() {
				return errors.New("slidegen edit requires an interactive terminal")
			}
			api, log, err := newClient()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctrl := session.NewController(api, api, deck.NewPPTXRenderer(), session.NewMemoryRegistry(), log)
			defer ctrl.Close()

			return tui.Run(cmd.Context(), tui.Options{
				Controller: ctrl,
				History:    api,
				Exporter:   api,
				OutDir:     outDir,
				Logger:     log,
				Prompt:     strings.Join(args, " "),
			})
		},
	}
}
