package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pptx>",
		Short: "Upload a presentation and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, log, err := newClient()
			if err != nil {
				return err
			}
			defer log.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			resp, err := api.Upload(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(resp)
			}
			fmt.Printf("%s %s\n", color.GreenString("✓"), resp.URL)
			return nil
		},
	}
}
