package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StockPulse/internal/api"
	"StockPulse/internal/collector"
	"StockPulse/internal/notifier"
	"StockPulse/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockpulse",
		Short: "Stock data, scoring and an educational investing assistant",
		Long: `stockpulse serves live stock snapshots with cached, throttled upstream
fetches, scores them with a rule-based engine, and answers investing
questions through a model chain with local fallback replies.`,
		SilenceUsage: true,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "Path to the YAML config (env CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(symbolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var warmOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, Telegram bot and warm-up scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a, warmOnStart)
		},
	}
	cmd.Flags().BoolVar(&warmOnStart, "warm", os.Getenv("RUN_ON_START") == "true", "Run the cache warm-up once at startup")
	return cmd
}

func serve(parent context.Context, a *app, warmOnStart bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := a.logger

	srv := api.NewServer(a.cfg.Server.Addr, a.analyzer, log)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start api server: %w", err)
	}

	var alerter scheduler.Alerter
	if a.cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.DataSource.Proxy, log)
		if a.cfg.Telegram.ChatID != "" {
			alerter = tn
		}
		bot := notifier.NewBot(a.analyzer, log)
		go tn.StartPolling(ctx, bot.HandleCommand)
		log.Info("telegram polling started")
	}

	sched := scheduler.NewScheduler(ctx, a.analyzer, a.cfg.Schedule.WarmupSymbols, alerter, log)
	if err := sched.Register(a.cfg.Schedule.WarmupCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if warmOnStart {
		go sched.RunWarmupNow()
	}

	log.Info("stockpulse is running", zap.String("addr", a.cfg.Server.Addr))
	<-ctx.Done()

	log.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api shutdown", zap.Error(err))
	}
	log.Info("stockpulse stopped")
	return nil
}

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Fetch a market snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSymbol(cmd, args[0], func(a *app, sym string) (any, error) {
				return a.analyzer.FetchSnapshot(cmd.Context(), sym)
			})
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Fetch and score a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSymbol(cmd, args[0], func(a *app, sym string) (any, error) {
				return a.analyzer.Analyze(cmd.Context(), sym)
			})
		},
	}
}

func withSymbol(cmd *cobra.Command, raw string, fn func(a *app, sym string) (any, error)) error {
	sym, err := collector.NormalizeSymbol(raw)
	if err != nil {
		return errors.New(collector.UserMessage(err))
	}
	a, err := newApp(cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := fn(a, sym)
	if err != nil {
		return errors.New(collector.UserMessage(err))
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func chatCmd() *cobra.Command {
	var stockContext string
	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Ask the investing assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			reply := a.analyzer.Respond(cmd.Context(), strings.Join(args, " "), stockContext)
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVar(&stockContext, "context", "", "Stock context passed to the assistant")
	return cmd
}

func symbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List symbols with offline demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.analyzer.ListReferenceSymbols(), "\n"))
			return nil
		},
	}
}
