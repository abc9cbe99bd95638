package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/lexicon/internal/config"
	"github.com/shaharia-lab/lexicon/internal/diagnose"
	"github.com/shaharia-lab/lexicon/internal/enrich"
)

// pingerFactory builds the Claude client used by `check --anthropic`. Replaced in tests.
var pingerFactory = func(cfg *config.AppConfig) diagnose.Pinger {
	return enrich.NewClaudeEnricher(cfg.AnthropicAPIKey, cfg.AnthropicModel)
}

// NewCheckCmd returns the "check" subcommand that tests the Notion connection.
func NewCheckCmd(cfg *config.AppConfig) *cobra.Command {
	var noColor bool
	var withClaude bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Test the Notion API connection",
		Long: `Run the vocabulary query directly against Notion and print what comes back.
With --anthropic, also send one short message to Claude and report whether
everything "lexicon enrich" needs is in place. Nothing is sent to a service
whose API key is not configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []diagnose.Option
			if noColor {
				opts = append(opts, diagnose.WithNoColor())
			}
			if withClaude {
				var p diagnose.Pinger
				if cfg.AnthropicAPIKey != "" {
					p = pingerFactory(cfg)
				}
				opts = append(opts, diagnose.WithClaude(p))
			}
			diagnose.New(cfg.NotionClient(), cmd.OutOrStdout(), opts...).Run(cmd.Context())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&withClaude, "anthropic", false, "Also test the Anthropic API connection used by enrich")
	return cmd
}
