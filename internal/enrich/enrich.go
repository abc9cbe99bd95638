// Package enrich fills in definitions, emotional texture and examples for
// vocabulary entries marked Ready, then marks them Enriched.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

// Word is the part of a vocabulary page sent to the model.
type Word struct {
	PageID           string
	Word             string
	BriefDefinition  string
	EmotionalTexture string
}

// WordFromPage extracts a Word from a Notion page.
func WordFromPage(p notion.Page) Word {
	return Word{
		PageID:           p.ID,
		Word:             strings.TrimSpace(p.Title(notion.PropName)),
		BriefDefinition:  p.RichText(notion.PropBriefDefinition),
		EmotionalTexture: p.RichText(notion.PropEmotionalTexture),
	}
}

// Enrichment is the model output for one word.
type Enrichment struct {
	BriefDefinition    string `json:"brief_definition"`
	EmotionalTexture   string `json:"emotional_texture"`
	ContextualExamples string `json:"contextual_examples"`
}

// Properties converts e into a page update. Empty fields are left out and
// Status is always set to Enriched.
func (e *Enrichment) Properties() notion.Properties {
	props := notion.Properties{}
	if e.BriefDefinition != "" {
		props.SetRichText(notion.PropBriefDefinition, e.BriefDefinition)
	}
	if e.EmotionalTexture != "" {
		props.SetRichText(notion.PropEmotionalTexture, e.EmotionalTexture)
	}
	if e.ContextualExamples != "" {
		props.SetRichText(notion.PropContextualExamples, e.ContextualExamples)
	}
	props.SetSelect(notion.PropStatus, notion.StatusEnriched)
	return props
}

// Enricher produces an Enrichment for a word.
type Enricher interface {
	Enrich(ctx context.Context, w Word) (*Enrichment, error)
}

// Store is the Notion surface the runner needs.
type Store interface {
	notion.DatabaseQuerier
	notion.PageUpdater
}

// Summary counts the outcome of a run.
type Summary struct {
	Found    int
	Enriched int
	Failed   int
}

// Runner walks the Ready words and enriches them one at a time.
type Runner struct {
	store    Store
	enricher Enricher
	out      io.Writer
	logger   *slog.Logger
	delay    time.Duration
	sleep    func(context.Context, time.Duration) error
}

// NewRunner creates a Runner that pauses delay between words.
func NewRunner(store Store, enricher Enricher, out io.Writer, logger *slog.Logger, delay time.Duration) *Runner {
	return &Runner{
		store:    store,
		enricher: enricher,
		out:      out,
		logger:   logger,
		delay:    delay,
		sleep:    sleepCtx,
	}
}

// Run enriches every Ready word. Per-word failures are counted, not returned;
// the error is reserved for failing to list the words at all.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	r.printf("Fetching words that need enrichment...\n")
	words, err := r.readyWords(ctx)
	if err != nil {
		return sum, err
	}
	sum.Found = len(words)

	if len(words) == 0 {
		r.printf("No words found with Status=%q. All caught up!\n", notion.StatusReady)
		return sum, nil
	}
	r.printf("Found %d word(s) to enrich\n", len(words))

	for i, w := range words {
		if r.enrichOne(ctx, i+1, len(words), w) {
			sum.Enriched++
		} else {
			sum.Failed++
		}

		if i < len(words)-1 && r.delay > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return sum, err
			}
		}
	}

	r.printf("\n%s\n", strings.Repeat("=", 60))
	r.printf("Enrichment complete!\n")
	r.printf("   Successfully enriched: %d word(s)\n", sum.Enriched)
	if sum.Failed > 0 {
		r.printf("   Failed: %d word(s)\n", sum.Failed)
	}
	r.printf("%s\n", strings.Repeat("=", 60))
	return sum, nil
}

func (r *Runner) readyWords(ctx context.Context) ([]Word, error) {
	resp, err := r.store.QueryDatabase(ctx, notion.VocabularyDatabaseID, notion.StatusQuery(notion.StatusReady))
	if err != nil {
		return nil, fmt.Errorf("querying Notion database: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("querying Notion database: %w", notion.DecodeAPIError(resp))
	}

	result, err := notion.DecodeQueryResult(resp.Body)
	if err != nil {
		return nil, err
	}

	words := make([]Word, 0, len(result.Results))
	for _, p := range result.Results {
		words = append(words, WordFromPage(p))
	}
	return words, nil
}

// enrichOne reports whether the word was enriched and written back.
func (r *Runner) enrichOne(ctx context.Context, n, total int, w Word) bool {
	if w.Word == "" {
		r.printf("Skipping entry %d: no word found\n", n)
		r.logger.Warn("skipping page without word", "page_id", w.PageID)
		return false
	}

	r.printf("\n[%d/%d] Processing: %q\n", n, total, w.Word)
	r.printf("%s\n", strings.Repeat("-", 60))
	r.printf("   Asking Claude for enrichment...\n")

	e, err := r.enricher.Enrich(ctx, w)
	if err != nil {
		r.printf("   Failed to generate enrichment for %q: %v\n", w.Word, err)
		r.logger.Error("enrichment failed", "word", w.Word, "error", err)
		return false
	}

	r.printf("   Definition: %s...\n", preview(e.BriefDefinition, 80))
	r.printf("   Texture: %s\n", orNA(e.EmotionalTexture))
	r.printf("   Examples: generated %d example(s)\n", strings.Count(e.ContextualExamples, "Example"))

	r.printf("   Updating Notion...\n")
	if err := r.store.UpdatePage(ctx, w.PageID, e.Properties()); err != nil {
		r.printf("   Failed to update Notion for %q: %v\n", w.Word, err)
		r.logger.Error("updating page failed", "word", w.Word, "page_id", w.PageID, "error", err)
		return false
	}

	r.printf("   Successfully enriched %q!\n", w.Word)
	r.logger.Info("word enriched", "word", w.Word, "page_id", w.PageID)
	return true
}

func (r *Runner) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

func preview(s string, n int) string {
	s = orNA(s)
	if rs := []rune(s); len(rs) > n {
		return string(rs[:n])
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
