package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/lexicon/internal/config"
)

// NewRootCmd builds the command tree around cfg.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "lexicon",
		Short: "Living Lexicon flashcards",
		Long: `Living Lexicon serves a browser flashcard app backed by a Notion vocabulary
database, and ships tools to check the Notion connection and enrich new words.`,
		SilenceUsage: true,
	}

	root.AddCommand(NewWebCmd(cfg))
	root.AddCommand(NewCheckCmd(cfg))
	root.AddCommand(NewEnrichCmd(cfg))
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute loads the configuration and runs the root command. SIGINT and
// SIGTERM cancel the command context.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly above
	}
}
