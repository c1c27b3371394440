package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/d0wlet/sentinel/internal/classifier"
	"github.com/d0wlet/sentinel/internal/config"
	"github.com/d0wlet/sentinel/internal/dashboard"
	"github.com/d0wlet/sentinel/internal/hub"
	"github.com/d0wlet/sentinel/internal/logging"
	"github.com/d0wlet/sentinel/internal/matcher"
	"github.com/d0wlet/sentinel/internal/notify"
	"github.com/d0wlet/sentinel/internal/output"
	"github.com/d0wlet/sentinel/internal/pipeline"
	"github.com/d0wlet/sentinel/internal/simulator"
	"github.com/d0wlet/sentinel/internal/stats"
	"github.com/d0wlet/sentinel/internal/tailer"
	"github.com/d0wlet/sentinel/internal/watcher"
)

var (
	listenAddr string
	webhookURL string
	simulate   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch log files and raise alerts in real time",
	Long: `Watch one or more log files (or glob patterns), classify every new
line, and stream alerts to the terminal. Optionally serves a live web
dashboard and posts alert notifications to a webhook.

Examples:
  sentinel watch /var/log/app.log
  sentinel watch "/var/log/**/*.log" --listen 127.0.0.1:8080
  sentinel watch app.log --webhook https://hooks.example.com/T123
  sentinel watch test.log --simulate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&listenAddr, "listen", "", "serve the web dashboard on this address (e.g. 127.0.0.1:8080)")
	watchCmd.Flags().StringVar(&webhookURL, "webhook", "", "notification webhook URL (overrides config)")
	watchCmd.Flags().BoolVar(&simulate, "simulate", false, "generate synthetic log traffic into the first watched path")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if webhookURL != "" {
		cfg.WebhookURL = webhookURL
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	// Compile the rule set before anything starts moving. An invalid
	// pattern must keep the pipeline from running at all.
	m, err := matcher.Compile(cfg.Rules)
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}

	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n🛡 Sentinel shutting down gracefully...")
		cancel()
	}()

	// --- Optional synthetic traffic ---
	if simulate {
		target := args[0]
		if _, err := os.Stat(target); err != nil {
			if f, err := os.Create(target); err == nil {
				f.Close()
			}
		}
		sim := simulator.New(target)
		go func() {
			if err := sim.Run(ctx); err != nil {
				logrus.Errorf("simulator stopped: %v", err)
			}
		}()
	}

	// --- Tail source ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watchedPaths := w.Paths()
	if len(watchedPaths) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "🛡 Sentinel watching %d file(s):\n", len(watchedPaths))
	for _, p := range watchedPaths {
		fmt.Fprintf(os.Stderr, "   • %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	ckpt, err := tailer.NewCheckpoint(filepath.Join(".", ".sentinel-state.json"))
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	t := tailer.New(w, ckpt)

	// --- Shared state and outbound path ---
	st := stats.New()
	h := hub.New()
	gate := notify.NewGate(notify.DefaultCooldown)

	var notifier *notify.Notifier
	if cfg.WebhookURL != "" {
		notifier = notify.NewNotifier(cfg.WebhookURL)
		logrus.Infof("notifications enabled, cooldown %s", notify.DefaultCooldown)
	}

	p := pipeline.New(t.Lines(), classifier.New(m), st, gate, notifier, h)

	// --- Choose renderer ---
	var renderer output.Renderer
	switch strings.ToLower(outputFmt) {
	case "json":
		renderer = output.NewJSONRenderer()
	default:
		renderer = output.NewTextRenderer()
	}

	// --- Start everything ---
	go w.Start(ctx)
	go t.Start(ctx)

	if cfg.Listen != "" {
		srv := dashboard.New(h, st, cfg.Listen)
		go func() {
			logrus.Infof("dashboard listening on http://%s", cfg.Listen)
			if err := srv.Start(); err != nil {
				logrus.Errorf("dashboard server stopped: %v", err)
			}
		}()
	}

	pipeErr := make(chan error, 1)
	go func() {
		pipeErr <- p.Run(ctx)
	}()

	// --- Terminal dashboard consumer ---
	// Renders alerts as they arrive and a stats line on the polling
	// tick, independent of ingestion speed.
	alerts := h.Subscribe()
	ticker := time.NewTicker(cfg.PollingInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-pipeErr:
			// Source exhaustion or failure is fatal; the supervisor
			// above us decides whether to restart.
			return err

		case ev, ok := <-alerts:
			if !ok {
				return nil
			}
			if err := renderer.RenderAlert(ev); err != nil {
				logrus.Errorf("render error: %v", err)
			}

		case <-ticker.C:
			if err := renderer.RenderStats(st.Snapshot()); err != nil {
				logrus.Errorf("render error: %v", err)
			}
		}
	}
}
