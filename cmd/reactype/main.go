package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aeolun/reactype/pkg/address"
	"github.com/aeolun/reactype/pkg/client"
	"github.com/aeolun/reactype/pkg/client/ui"
	"github.com/aeolun/reactype/pkg/slackapi"
	"github.com/aeolun/reactype/pkg/typer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const usage = `Usage: reactype [flags] <slack-message-url>
Example: reactype https://yourworkspace.slack.com/archives/C12345678/p1672534987000200

Flags:
`

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/reactype/config.toml)")
	debugPath := flag.String("debug", "", "Write debug logs to this file")
	metricsAddr := flag.String("metrics-addr", "", "Serve prometheus metrics on this address (overrides [metrics] listen_addr)")
	resetConfig := flag.Bool("reset-config", false, "Back up the config file and replace it with defaults")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *configPath == "" {
		*configPath = client.DefaultConfigPath()
	}

	if *resetConfig {
		if err := client.ResetConfigToDefault(*configPath, true); err != nil {
			fatalf("Failed to reset config: %v", err)
		}
		fmt.Printf("Config reset to defaults: %s\n", *configPath)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	rawURL := flag.Arg(0)

	var logger *log.Logger
	if *debugPath != "" {
		f, err := tea.LogToFile(*debugPath, "reactype ")
		if err != nil {
			fatalf("Failed to open debug log: %v", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	addr, err := address.Parse(rawURL)
	if err != nil {
		fatalf("%v", err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()

	workspace, _ := address.WorkspaceRoot(rawURL)
	creds, err := client.ResolveCredentials(ctx, client.CredentialSource{
		Config:              cfg.Auth,
		Logger:              logger,
		DerivedWorkspaceURL: workspace,
	})
	for _, w := range creds.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if err != nil {
		fatalf("%v", err)
	}

	slackClient := slackapi.New(creds.Token, slackapi.Options{
		Cookie: creds.Cookie,
		Logger: logger,
	})

	message, err := slackClient.FetchMessage(ctx, addr)
	if err != nil {
		handleSlackError("fetching message", err)
	}

	authorName := message.User
	if author, err := slackClient.FetchUser(ctx, message.User); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not fetch user details: %s\n", slackapi.Code(err))
		fmt.Fprintln(os.Stderr, "Continuing with user ID instead of name...")
	} else {
		authorName = slackapi.DisplayName(*author)
	}

	text, mentions := slackapi.ResolveMentions(ctx, slackClient, message.Text)

	codec := cfg.Codec()
	reg := prometheus.NewRegistry()
	ctrl := typer.New(slackClient, addr, typer.Config{
		Codec:   codec,
		Mode:    cfg.ColorMode(),
		Seed:    codec.ReconstructSequence(message.Reactions),
		Metrics: typer.NewMetrics(reg),
	})
	ctrl.SetLogger(logger)

	listen := cfg.Metrics.ListenAddr
	if *metricsAddr != "" {
		listen = *metricsAddr
	}
	if listen != "" {
		go serveMetrics(listen, reg, logger)
	}

	opts := []ui.Option{ui.WithContext(ctx), ui.WithLogger(logger)}
	if cfg.UI.NotifyOnError {
		opts = append(opts, ui.WithNotifier(ui.DesktopNotifier{}))
	}
	model := ui.NewModel(ctrl, ui.MessageInfo{
		Author:   authorName,
		Text:     text,
		Time:     message.Time(),
		Mentions: mentions,
	}, opts...)

	// Create bubbletea program
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Run the program
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("👋 Goodbye!")
}

// loadConfig loads the config file. A broken file is explained on screen and
// can be reset to defaults, after which loading is retried once.
func loadConfig(path string) (client.TOMLConfig, error) {
	cfg, err := client.LoadClientConfig(path)
	var cfgErr *client.ConfigError
	if !errors.As(err, &cfgErr) {
		return cfg, err
	}

	outcome, runErr := ui.RunConfigError(cfgErr)
	switch outcome {
	case ui.ConfigErrorReset:
		fmt.Println("✓ Configuration reset to defaults")
		return client.LoadClientConfig(path)
	case ui.ConfigErrorResetFailed:
		return cfg, fmt.Errorf("failed to reset config: %w", runErr)
	default:
		return cfg, err
	}
}

func serveMetrics(listen string, reg *prometheus.Registry, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && logger != nil {
		logger.Printf("metrics server stopped: %v", err)
	}
}

// handleSlackError explains a failed startup call and exits
func handleSlackError(operation string, err error) {
	fmt.Fprintf(os.Stderr, "❌ Error %s:\n", operation)

	switch {
	case errors.Is(err, slackapi.ErrAuth):
		fmt.Fprintln(os.Stderr, "Authentication failed. Please check your Slack token (it may be expired or invalid).")
		fmt.Fprintln(os.Stderr, "Set SLACK_API_COOKIE, SLACK_TOKEN, [auth] token in the config file, or add credentials to ~/.netrc")
	case errors.Is(err, slackapi.ErrChannelNotFound):
		fmt.Fprintln(os.Stderr, "Channel not found. Make sure you have access to the channel and the URL is correct.")
	case errors.Is(err, slackapi.ErrNotInChannel):
		fmt.Fprintln(os.Stderr, "You are not a member of this channel. Please join the channel in Slack first.")
	case errors.Is(err, slackapi.ErrMessageNotFound):
		fmt.Fprintln(os.Stderr, "Message not found. The message may have been deleted or the URL is incorrect.")
	default:
		fmt.Fprintf(os.Stderr, "Slack API error: %v\n", err)
	}

	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "❌ Error: "+format+"\n", args...)
	os.Exit(1)
}
