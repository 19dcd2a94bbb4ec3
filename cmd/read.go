package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/app"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/feedback"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/llm"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read stories in the terminal (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReader(cmd)
	},
}

func init() {
	readCmd.Flags().String("user", "", "Local reader name (overrides TUTOR_LOCAL_USER)")
}

// runReader opens the store, builds the engine for the local reader and
// launches the TUI.
func runReader(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.LocalUser = u
	}
	log := quietLogger(cfg)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	user, err := auth.EnsureLocal(ctx, st.UserRepo(), cfg.LocalUser)
	if err != nil {
		return fmt.Errorf("local reader %q: %w", cfg.LocalUser, err)
	}

	opts := tutor.Options{
		StrictQuiz: cfg.StrictQuiz,
		Location:   cfg.Location,
		Logger:     log,
	}
	provider, _, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Quiz feedback and the tutor chat will use the built-in messages.")
		provider = nil
	} else {
		opts.Feedback = feedback.NewLLM(provider)
	}

	svc := tutor.New(st, st.StoryRepo(), opts)
	return app.Run(ctx, screen.Env{
		Tutor:  svc,
		UserID: user.ID,
		Chat:   chat.New(provider, svc, chat.Options{Logger: log}),
	})
}
