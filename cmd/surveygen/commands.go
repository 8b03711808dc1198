package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/surveygen/internal/api"
	"github.com/muurk/surveygen/internal/config"
	"github.com/muurk/surveygen/internal/logging"
	"github.com/muurk/surveygen/internal/metrics"
	"github.com/muurk/surveygen/internal/mock"
	"github.com/muurk/surveygen/internal/survey"
	"github.com/muurk/surveygen/internal/ui"
)

// Global flags
var (
	configPath string
	baseURL    string
	apiHost    string
	timeout    time.Duration
	logLevel   string
)

// Generate command flags
var (
	outputFormat    string
	regenerateCount int
	metricsTextfile string
	noSpinner       bool
)

// Mock command flags
var (
	scenarioPath string
	mockPort     int
	mockPrefix   string
)

// cfg is the effective configuration, resolved before any command runs
var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/surveygen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL or path prefix (default /api)")
	rootCmd.PersistentFlags().StringVar(&apiHost, "host", "", "Origin used to resolve a relative base URL (default http://localhost:5001)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (default 60s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")

	generateCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	generateCmd.Flags().IntVar(&regenerateCount, "regenerate", 0, "Regenerate the survey N more times with the same requirement")
	generateCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics for this run to a textfile")
	generateCmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "Disable the progress spinner")

	mockCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (default: built-in sample survey)")
	mockCmd.Flags().IntVar(&mockPort, "port", 5001, "Port to listen on")
	mockCmd.Flags().StringVar(&mockPrefix, "prefix", config.DefaultBaseURL, "Path prefix for the API routes")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(configCmd)
}

// skipConfigAnnotation marks commands that do not talk to the survey service
// and so run without loading the configuration file
const skipConfigAnnotation = "surveygen/skip-config"

// loadConfig resolves configuration and initializes logging
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return logging.Initialize(logLevel)
	}

	loaded, err := config.Load(configPath, ".env")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		loaded.BaseURL = baseURL
	}
	if flags.Changed("host") {
		loaded.Host = apiHost
	}
	if flags.Changed("timeout") {
		loaded.Timeout = timeout
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}

	if err := logging.Initialize(loaded.LogLevel); err != nil {
		return err
	}

	cfg = loaded
	logging.Debug("Configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("host", cfg.Host),
		zap.Duration("timeout", cfg.Timeout))
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// generateCmd generates a survey from a requirement
var generateCmd = &cobra.Command{
	Use:   "generate <requirement...>",
	Short: "Generate a survey from a plain-language requirement",
	Long: `Send a requirement to the survey service and print the generated survey.

All arguments are joined into a single requirement. Generation is AI-backed
and can take tens of seconds; a spinner is shown while the request is
pending when stdout is a terminal.`,
	Example: `  # Generate a survey
  surveygen generate "customer satisfaction survey for a coffee shop"

  # Print the raw survey JSON
  surveygen generate --format json "employee onboarding feedback"

  # Generate three variations of the same requirement
  surveygen generate --regenerate 2 "event feedback"

  # Talk to a different service
  surveygen generate --base-url https://surveys.example.com/api "course evaluation"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if outputFormat != "detailed" && outputFormat != "json" {
		return fmt.Errorf("invalid format %q (expected detailed or json)", outputFormat)
	}
	if regenerateCount < 0 {
		return fmt.Errorf("--regenerate must not be negative")
	}

	client, err := api.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()
	client.Recorder = recorder
	store := survey.NewStore(client, survey.WithRecorder(recorder))

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	detailed := outputFormat == "detailed"
	animate := detailed && !noSpinner && out == os.Stdout && ui.IsTerminal(os.Stdout)

	requirement := strings.Join(args, " ")
	if detailed {
		header := ui.NewHeader("Survey Generator", "generate").
			AddParam("Base URL", client.BaseURL).
			AddParam("Timeout", client.Timeout().String())
		fmt.Fprintln(out, header.Render())
	}

	run := func(label string, op func() error) error {
		if animate {
			return ui.RunWithSpinner(ctx, out, label, store, op)
		}
		if detailed {
			fmt.Fprintf(out, "%s...\n", label)
		}
		return op()
	}

	start := time.Now()
	var doc survey.Document
	err = run("Generating survey", func() error {
		var genErr error
		doc, genErr = store.Generate(ctx, requirement)
		return genErr
	})
	attempts := 1
	for i := 0; err == nil && i < regenerateCount; i++ {
		if detailed {
			fmt.Fprintln(out, ui.RenderSurvey(doc, ui.GetTerminalWidth()))
			fmt.Fprintln(out)
		} else {
			if werr := writeJSON(out, doc); werr != nil {
				return werr
			}
		}
		attempts++
		err = run(fmt.Sprintf("Regenerating survey (%d/%d)", i+1, regenerateCount), func() error {
			var genErr error
			doc, genErr = store.Regenerate(ctx)
			return genErr
		})
	}
	elapsed := time.Since(start)

	if metricsTextfile != "" {
		if werr := recorder.WriteTextfile(metricsTextfile); werr != nil {
			logging.Warn("Failed to write metrics textfile", zap.String("path", metricsTextfile), zap.Error(werr))
		}
	}

	if err != nil {
		if !detailed {
			return err
		}
		result := ui.NewFailureResult("Survey generation failed", err, api.Troubleshooting(err))
		if reqErr, ok := api.AsRequestError(err); ok {
			if reqErr.StatusCode != 0 {
				result.AddDetail("HTTP Status", fmt.Sprintf("%d", reqErr.StatusCode))
			}
			if reqErr.RequestID != "" {
				result.AddDetail("Request ID", reqErr.RequestID)
			}
		}
		fmt.Fprintln(out, result.Render())
		return errReported
	}

	if !detailed {
		return writeJSON(out, doc)
	}

	fmt.Fprintln(out, ui.RenderSurvey(doc, ui.GetTerminalWidth()))
	fmt.Fprintln(out)
	result := ui.NewSuccessResult("Survey generated",
		ui.Detail{Key: "Questions", Value: fmt.Sprintf("%d", len(doc.Questions()))},
		ui.Detail{Key: "Attempts", Value: fmt.Sprintf("%d", attempts)},
		ui.Detail{Key: "Elapsed", Value: elapsed.Truncate(time.Millisecond).String()},
	)
	fmt.Fprintln(out, result.Render())
	return nil
}

// writeJSON pretty-prints a raw JSON payload
func writeJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// healthCmd checks the service health endpoint
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the survey service is reachable",
	Long: `Call the service health endpoint and print its response.

Exits non-zero when the service cannot be reached or reports an error.`,
	Example: `  surveygen health
  surveygen health --host http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	client, err := api.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	body, err := client.HealthCheck(ctx)
	if err != nil {
		result := ui.NewFailureResult("Service unreachable", err, api.Troubleshooting(err)).
			AddDetail("Base URL", client.BaseURL)
		fmt.Fprintln(out, result.Render())
		return errReported
	}

	if len(body) == 0 {
		fmt.Fprintln(out, "{}")
		return nil
	}
	return writeJSON(out, body)
}

// mockCmd runs the scripted stand-in service
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local stand-in for the survey service",
	Long: `Serve the survey API from a scripted scenario for local development.

Responses are taken from the scenario file in order; the last one repeats.
Without --scenario a built-in sample survey is served. Stop with Ctrl+C.`,
	Example: `  # Serve the sample survey on the default port
  surveygen mock

  # Replay a scripted failure sequence
  surveygen mock --scenario testdata/quota.yaml --port 8080`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runMock,
}

func runMock(cmd *cobra.Command, args []string) error {
	scenario := mock.DefaultScenario()
	if scenarioPath != "" {
		loaded, err := mock.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		scenario = loaded
	}

	server := mock.NewServer(scenario, mockPrefix)
	if err := server.Start(fmt.Sprintf(":%d", mockPort)); err != nil {
		return fmt.Errorf("failed to start stub server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stub survey service listening on %s%s\n", server.Addr(), mockPrefix)
	fmt.Fprintf(out, "Serving %d scripted response(s). Press Ctrl+C to stop.\n", len(scenario.Responses))

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop stub server: %w", err)
	}

	fmt.Fprintf(out, "Handled %d request(s)\n", len(server.Requests()))
	return nil
}

// configCmd groups configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := cfg.ResolvedBaseURL()
		if err != nil {
			return err
		}
		result := ui.NewSuccessResult("Effective configuration",
			ui.Detail{Key: "Base URL", Value: cfg.BaseURL},
			ui.Detail{Key: "Host", Value: cfg.Host},
			ui.Detail{Key: "Resolved", Value: resolved},
			ui.Detail{Key: "Timeout", Value: cfg.Timeout.String()},
			ui.Detail{Key: "Log level", Value: valueOr(cfg.LogLevel, "off")},
		)
		fmt.Fprintln(cmd.OutOrStdout(), result.Render())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.GetConfigPath()
			if err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
