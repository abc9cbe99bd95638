package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	maxTokens = 1024

	pingMaxTokens = 50
	pingTimeout   = 10 * time.Second
	pingPrompt    = "Say 'API connection successful!' in a friendly way."
)

// ClaudeEnricher asks Claude for an enrichment.
type ClaudeEnricher struct {
	client anthropic.Client
	model  string
}

// NewClaudeEnricher returns an Enricher using model. Extra options are applied
// after the API key, so tests can point the client at a fake server.
func NewClaudeEnricher(apiKey, model string, opts ...option.RequestOption) *ClaudeEnricher {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeEnricher{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Enrich implements Enricher.
func (e *ClaudeEnricher) Enrich(ctx context.Context, w Word) (*Enrichment, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(w))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling Claude: %w", err)
	}

	return ParseEnrichment(replyText(msg))
}

// Ping sends one short message and returns Claude's reply. It gives up after
// ten seconds.
func (e *ClaudeEnricher) Ping(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: pingMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(pingPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Claude: %w", err)
	}
	return replyText(msg), nil
}

func replyText(msg *anthropic.Message) string {
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}

// ParseEnrichment decodes the JSON object in a model reply. Replies wrapped in
// a ``` or ```json fence are accepted.
func ParseEnrichment(reply string) (*Enrichment, error) {
	content := stripFence(reply)
	if content == "" {
		return nil, errors.New("parsing Claude response: empty reply")
	}

	var e Enrichment
	if err := json.Unmarshal([]byte(content), &e); err != nil {
		return nil, fmt.Errorf("parsing Claude response: %w", err)
	}
	return &e, nil
}

func stripFence(s string) string {
	for _, fence := range []string{"```json", "```"} {
		_, after, ok := strings.Cut(s, fence)
		if !ok {
			continue
		}
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(s)
}

func buildPrompt(w Word) string {
	var b strings.Builder
	b.WriteString("You are helping enrich a personal vocabulary database for someone who works in design ")
	b.WriteString("and regularly listens to design and business podcasts.\n\n")
	fmt.Fprintf(&b, "Word: %q\n\n", w.Word)
	b.WriteString("Generate enrichment for this word that is:\n")
	b.WriteString("1. Contextually relevant to design, UX, product development and creative work\n")
	b.WriteString("2. Illustrated with examples from design scenarios, podcasts or professional contexts\n")
	b.WriteString("3. Clear and memorable\n\n")
	if w.BriefDefinition != "" {
		fmt.Fprintf(&b, "Existing definition: %s\n", w.BriefDefinition)
	}
	if w.EmotionalTexture != "" {
		fmt.Fprintf(&b, "Existing emotional texture: %s\n", w.EmotionalTexture)
	}
	b.WriteString(`
Please provide:
1. Brief Definition: a concise, clear definition (1-2 sentences max)
2. Emotional Texture: 2-3 synonyms or related feeling words (comma-separated)
3. Contextual Examples: 3 distinct examples of the word in design, creative or podcast contexts, 1-2 sentences each

Format your response as JSON:
{
  "brief_definition": "...",
  "emotional_texture": "...",
  "contextual_examples": "Example 1: ...\n\nExample 2: ...\n\nExample 3: ..."
}
`)
	return b.String()
}
