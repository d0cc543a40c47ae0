package cmd

import (
	"fmt"

	"github.com/loomchat/loom/pkg/api"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models the backend can chat with",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		important, _ := cmd.Flags().GetBool("important")

		client := newAPIClient()
		ctx := cmd.Context()

		var (
			models []api.ModelInfo
			err    error
		)
		switch {
		case all:
			models, err = client.AllModels(ctx)
		case important:
			models, err = client.ImportantModels(ctx)
		default:
			models, err = client.Models(ctx)
		}
		if err != nil {
			return err
		}

		for _, model := range models {
			line := model.Name
			if model.Provider != "" {
				line += "  " + infoStyle.Render(model.Provider)
			}
			if model.Description != "" {
				line += "  " + model.Description
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("all", false, "include every model the backend knows about")
	modelsCmd.Flags().Bool("important", false, "only the curated model shortlist")
	rootCmd.AddCommand(modelsCmd)
}
