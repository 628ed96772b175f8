package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"doclint/internal/driver"
	"doclint/internal/extract"
	"doclint/internal/lint"
	"doclint/internal/render"
	"doclint/internal/server"
	"doclint/internal/trace"
)

const gotenbergEnv = "GOTENBERG_API_URL"

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Run the template lint HTTP API",
	Long: `Serve exposes POST /api/v1/lint-docx-template. PDF reports are rendered
through Gotenberg; set --gotenberg-url or GOTENBERG_API_URL to enable them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":8000", "listen address")
	f.String("gotenberg-url", "", "Gotenberg base URL (overrides "+gotenbergEnv+")")
	f.Duration("gotenberg-timeout", render.DefaultTimeout, "timeout for one PDF conversion")
	f.Int("gotenberg-retries", 2, "retries for failed Gotenberg requests")
	f.Int("max-upload-mb", 50, "maximum upload size in megabytes")
	f.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
}

// serveSettings is the effective server setup after flags, env and toml.
type serveSettings struct {
	addr         string
	gotenbergURL string
	maxUploadMB  int
}

func resolveServeSettings(cmd *cobra.Command, cfg projectConfig) serveSettings {
	flags := cmd.Flags()
	s := serveSettings{
		addr:         cfg.Server.Addr,
		gotenbergURL: cfg.Server.GotenbergURL,
		maxUploadMB:  cfg.Server.MaxUploadMB,
	}
	if env := strings.TrimSpace(os.Getenv(gotenbergEnv)); env != "" {
		s.gotenbergURL = env
	}
	if flags.Changed("addr") {
		s.addr, _ = flags.GetString("addr")
	}
	if flags.Changed("gotenberg-url") {
		s.gotenbergURL, _ = flags.GetString("gotenberg-url")
	}
	if flags.Changed("max-upload-mb") {
		s.maxUploadMB, _ = flags.GetInt("max-upload-mb")
	}
	return s
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(explicit, ".")
	if err != nil {
		return err
	}
	settings := resolveServeSettings(cmd, cfg)
	if settings.maxUploadMB < 1 {
		return fmt.Errorf("--max-upload-mb must be positive")
	}

	linter, err := lint.New(cfg.Lint)
	if err != nil {
		return fmt.Errorf("invalid lint config: %w", err)
	}
	timeout, _ := cmd.Flags().GetDuration("gotenberg-timeout")
	retries, _ := cmd.Flags().GetInt("gotenberg-retries")
	shutdown, _ := cmd.Flags().GetDuration("shutdown-timeout")

	renderer := render.NewGotenberg(render.Config{
		URL:      settings.gotenbergURL,
		Timeout:  timeout,
		RetryMax: retries,
	})
	tracer := trace.FromContext(ctx)
	srv := server.New(driver.NewRunner(linter, &extract.Extractor{}), renderer, server.Config{
		Addr:            settings.addr,
		MaxUpload:       int64(settings.maxUploadMB) << 20,
		Tracer:          tracer,
		ShutdownTimeout: shutdown,
	})

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "doclint: listening on %s\n", settings.addr)
	if !renderer.Configured() {
		fmt.Fprintf(out, "doclint: %s is not set, PDF reports are disabled\n", gotenbergEnv)
	}
	return srv.ListenAndServe(ctx)
}
