package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/lexicon/internal/api"
	"github.com/shaharia-lab/lexicon/internal/build"
	"github.com/shaharia-lab/lexicon/internal/config"
	"github.com/shaharia-lab/lexicon/internal/logger"
	"github.com/shaharia-lab/lexicon/internal/metrics"
	"github.com/shaharia-lab/lexicon/internal/server"
)

// NewWebCmd returns the "web" subcommand that starts the HTTP server.
func NewWebCmd(cfg *config.AppConfig) *cobra.Command {
	var port int
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the flashcard app and Notion relay",
		Long: `Start the Living Lexicon HTTP server which serves the flashcard UI and relays
vocabulary queries to Notion. Open http://localhost:<port> in your browser.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
			printBanner(cmd.OutOrStdout(), build.Version, serverURL, cfg)

			if err := runWeb(cmd.Context(), cfg, noBrowser); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down server...")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not automatically open the browser on startup")

	return cmd
}

func runWeb(ctx context.Context, cfg *config.AppConfig, noBrowser bool) error {
	sysLogger, closer, err := logger.NewSystemLogger(cfg.LogDir, cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer closer.Close() //nolint:errcheck

	sysLogger.Info("lexicon starting",
		slog.Int("port", cfg.Port),
		slog.Bool("notion_configured", cfg.NotionAPIKey != ""),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)
	if cfg.NotionAPIKey == "" {
		sysLogger.Warn("NOTION_API_KEY not set; the app will ask for setup")
	}

	assets, err := resolveAssets(cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	apiSrv := api.New(cfg.NotionClient(), collector, sysLogger)
	srv := server.New(apiSrv, assets, collector, server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, sysLogger)

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	sysLogger.Info("server ready", "url", url)

	if !noBrowser {
		go openBrowser(url)
	}

	return srv.Run(ctx)
}

// resolveAssets picks the static directory override, falling back to the
// filesystem handed over by main.
func resolveAssets(cfg *config.AppConfig) (fs.FS, error) {
	if cfg.StaticDir != "" {
		info, err := os.Stat(cfg.StaticDir)
		if err != nil {
			return nil, fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static dir %s is not a directory", cfg.StaticDir)
		}
		return os.DirFS(cfg.StaticDir), nil
	}
	if WebFS == nil {
		return nil, errors.New("no web assets available")
	}
	return WebFS, nil
}

// printBanner writes the startup banner. Structured logs go to the log
// writer instead.
func printBanner(w io.Writer, version, serverURL string, cfg *config.AppConfig) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Living Lexicon Flashcard App")
	fmt.Fprintln(w, "================================")
	fmt.Fprintf(w, "Living Lexicon %s running.\n", version)
	fmt.Fprintf(w, "Server running at: %s\n", serverURL)
	fmt.Fprintln(w, "Open this URL in your browser to start learning!")
	if cfg.LogFile() != "" {
		fmt.Fprintf(w, "Logs: %s\n", cfg.LogFile())
	}
	fmt.Fprintln(w, "\nPress Ctrl+C to stop the server")
	fmt.Fprintln(w)
}

func openBrowser(url string) {
	time.Sleep(600 * time.Millisecond)
	ctx := context.Background()
	var c *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		c = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		c = exec.CommandContext(ctx, "open", url)
	default:
		c = exec.CommandContext(ctx, "xdg-open", url)
	}
	_ = c.Start()
}
