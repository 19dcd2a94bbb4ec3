package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List the stories on the shelf",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openForInspection(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stories, err := st.StoryRepo().ListActiveStories(cmd.Context())
		if err != nil {
			return fmt.Errorf("list stories: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stories) == 0 {
			fmt.Fprintln(out, "No stories available.")
			return nil
		}
		fmt.Fprintf(out, "%-20s  %-32s  %-12s  %-14s  %s\n",
			"ID", "Title", "Difficulty", "Category", "Quiz")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, s := range stories {
			fmt.Fprintf(out, "%-20s  %-32s  %-12s  %-14s  %d\n",
				truncate(s.ID, 20), truncate(s.Title, 32), s.Difficulty, s.Category, len(s.Quiz))
		}
		return nil
	},
}
