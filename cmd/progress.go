package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print a reader's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("user")
		if username == "" {
			username = cfg.LocalUser
		}

		log := quietLogger(cfg)
		st, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := st.UserRepo().GetUserByUsername(cmd.Context(), username)
		if err != nil {
			return err
		}
		svc := tutor.New(st, st.StoryRepo(), tutor.Options{Location: cfg.Location, Logger: log})
		p, err := svc.GetProgress(cmd.Context(), u.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Reader:           %s\n", u.Username)
		fmt.Fprintf(out, "Stories finished: %d\n", p.TotalStoriesCompleted)
		fmt.Fprintf(out, "Scenes read:      %d\n", p.TotalScenesRead)
		fmt.Fprintf(out, "Sessions:         %d\n", p.TotalSessions)
		fmt.Fprintf(out, "Average score:    %.1f%%\n", p.AverageQuizScore)
		fmt.Fprintf(out, "Reading time:     %d min\n", p.TotalReadingTime)
		fmt.Fprintf(out, "Streak:           %d (longest %d)\n", p.CurrentStreak, p.LongestStreak)
		fmt.Fprintf(out, "Points:           %d\n", p.TotalPoints)
		if len(p.FavoriteCategories) > 0 {
			fmt.Fprintf(out, "Favorites:        %s\n", strings.Join(p.FavoriteCategories, ", "))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Achievements")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, a := range achievements.All() {
			mark := "  "
			if p.Achievements.Has(a) {
				mark = a.Icon()
			}
			fmt.Fprintf(out, "%s %-22s %s\n", mark, a.DisplayName(), a.Description())
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().String("user", "", "Username (defaults to TUTOR_LOCAL_USER)")
}
