package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/ai-slides/internal/client"
	"github.com/capitalize-ai/ai-slides/internal/model"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [session-id]",
		Short: "List stored sessions, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, log, err := newClient()
			if err != nil {
				return err
			}
			defer log.Sync()

			if len(args) == 1 {
				item, err := findSession(cmd.Context(), api, args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(item)
				}
				fmt.Printf("Prompt: %s\n\n", color.CyanString(item.Prompt))
				printSlides(item.Slides)
				return nil
			}

			items, err := api.ListHistory(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(model.ListHistoryResponse{Items: items})
			}
			if len(items) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSLIDES\tPROMPT")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.ID, item.CreatedAt, len(item.Slides), truncate(item.Prompt, 60))
			}
			return w.Flush()
		},
	}
}

func findSession(ctx context.Context, api *client.Client, id string) (model.HistoryItem, error) {
	items, err := api.ListHistory(ctx)
	if err != nil {
		return model.HistoryItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return model.HistoryItem{}, fmt.Errorf("session %s not found", id)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
