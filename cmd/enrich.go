package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/lexicon/internal/config"
	"github.com/shaharia-lab/lexicon/internal/enrich"
	"github.com/shaharia-lab/lexicon/internal/logger"
)

// enricherFactory builds the LLM enricher. Replaced in tests.
var enricherFactory = func(cfg *config.AppConfig) enrich.Enricher {
	return enrich.NewClaudeEnricher(cfg.AnthropicAPIKey, cfg.AnthropicModel)
}

// NewEnrichCmd returns the "enrich" subcommand that fills in Ready words with Claude.
func NewEnrichCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich Ready vocabulary entries with Claude",
		Long: `Find every word whose Status is Ready, generate a brief definition, emotional
texture and contextual examples with Claude, write them back to Notion and set
Status to Enriched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.NotionAPIKey == "" {
				return errors.New("NOTION_API_KEY environment variable not set")
			}
			if cfg.AnthropicAPIKey == "" {
				return errors.New("ANTHROPIC_API_KEY environment variable not set")
			}

			sysLogger, closer, err := logger.NewSystemLogger(cfg.LogDir, cfg.SlogLevel())
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer closer.Close() //nolint:errcheck

			sysLogger.Info("enrichment starting", slog.String("model", cfg.AnthropicModel))

			runner := enrich.NewRunner(cfg.NotionClient(), enricherFactory(cfg), cmd.OutOrStdout(), sysLogger, cfg.EnrichDelay)
			sum, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("enriching vocabulary: %w", err)
			}

			sysLogger.Info("enrichment finished",
				slog.Int("found", sum.Found),
				slog.Int("enriched", sum.Enriched),
				slog.Int("failed", sum.Failed),
			)
			return nil
		},
	}

	cmd.Flags().DurationVar(&cfg.EnrichDelay, "delay", cfg.EnrichDelay, "Pause between words (overrides LEXICON_ENRICH_DELAY)")
	return cmd
}
