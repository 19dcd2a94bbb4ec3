package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/api"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/feedback"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/llm"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		if err := cfg.RequireSecret(); err != nil {
			return err
		}
		log := cfg.Logger(os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := tutor.Options{
			StrictQuiz: cfg.StrictQuiz,
			Location:   cfg.Location,
			Logger:     log,
		}
		provider, llmCfg, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			log.Warn("feedback and chat fall back to built-in messages", "reason", err)
			provider = nil
		} else {
			log.Info("llm provider ready", "provider", llmCfg.Provider)
			opts.Feedback = feedback.NewLLM(provider)
		}

		svc := tutor.New(st, st.StoryRepo(), opts)
		chatSvc := chat.New(provider, svc, chat.Options{Logger: log})
		authSvc := auth.NewService(st.UserRepo(), cfg.JWTSecret, cfg.TokenTTL)

		srv := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: api.NewRouter(svc, authSvc, api.Options{
				CORSOrigins: cfg.CORSOrigins,
				Logger:      log,
				Chat:        chatSvc,
				RequestLog:  true,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides TUTOR_HTTP_ADDR)")
}
