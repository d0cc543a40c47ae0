package cmd

import (
	"fmt"
	"strings"

	"github.com/loomchat/loom/pkg/api"
	"github.com/loomchat/loom/pkg/chat"
	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		skip, _ := cmd.Flags().GetInt("skip")
		search, _ := cmd.Flags().GetString("search")

		client := newAPIClient()
		page, err := client.ListThreads(cmd.Context(), api.ListThreadsOptions{
			Limit:  limit,
			Skip:   skip,
			Search: search,
		})
		if err != nil {
			return err
		}

		if len(page.Threads) == 0 {
			fmt.Println(infoStyle.Render("No threads found."))
			return nil
		}

		for _, thread := range page.Threads {
			title := thread.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %s  %s\n",
				thread.ID,
				infoStyle.Render(thread.Model),
				title)
		}
		if page.Total > len(page.Threads) {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Showing %d of %d threads.", len(page.Threads), page.Total)))
		}
		return nil
	},
}

var threadsRenameCmd = &cobra.Command{
	Use:   "rename <thread-id> <title>",
	Short: "Rename a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args[1:], " ")

		client := newAPIClient()
		thread, err := client.UpdateThread(cmd.Context(), args[0], api.ThreadUpdate{Title: &title})
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %q\n", thread.ID, thread.Title)
		return nil
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		if err := client.DeleteThread(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <thread-id>",
	Short: "Print a conversation's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		msgs, err := client.ThreadMessages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTranscript(chat.FromThreadRecords(msgs))
		return nil
	},
}

func init() {
	threadsCmd.Flags().Int("limit", 20, "maximum number of threads to list")
	threadsCmd.Flags().Int("skip", 0, "number of threads to skip")
	threadsCmd.Flags().String("search", "", "filter threads by title")

	threadsCmd.AddCommand(threadsRenameCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
	threadsCmd.AddCommand(threadsShowCmd)
	rootCmd.AddCommand(threadsCmd)
}
