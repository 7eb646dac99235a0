package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/evaluation"
	"github.com/abhisek/engpractice/internal/llm"
	"github.com/abhisek/engpractice/internal/metrics"
	"github.com/abhisek/engpractice/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		var configErr error
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			log.Warn("LLM provider not configured; evaluations will fail until a key is set", zap.Error(err))
			configErr, provider = err, nil
		case err != nil:
			return fmt.Errorf("init LLM provider: %w", err)
		default:
			log.Info("LLM provider ready",
				zap.String("provider", cfg.LLM.ResolveProvider()),
				zap.String("model", provider.ModelID()))
		}

		svc := evaluation.NewService(provider, configErr,
			evaluation.WithTimeout(cfg.LLM.Timeout),
			evaluation.WithLogger(log.Named("evaluation")))

		srv := server.New(cfg.Server, svc,
			server.WithPinger(st),
			server.WithMetrics(metrics.New()),
			server.WithLogger(log.Named("http")))

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
