// Package diagnose runs the connection checks behind `lexicon check`.
//
// The Notion check performs the same query the relay does, directly against
// Notion, and prints what it finds together with hints for the common
// failures. The optional Claude check sends one short message so the
// enrichment setup can be verified before running it.
package diagnose

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

// Result classifies the outcome of a check.
type Result int

const (
	ResultOK Result = iota
	ResultEmpty
	ResultMissingKey
	ResultUpstreamError
	ResultNetworkError
	ResultInvalidResponse
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultEmpty:
		return "empty"
	case ResultMissingKey:
		return "missing_key"
	case ResultUpstreamError:
		return "upstream_error"
	case ResultNetworkError:
		return "network_error"
	case ResultInvalidResponse:
		return "invalid_response"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

const (
	previewCount    = 3
	definitionWidth = 80
)

// Pinger sends a minimal request to Claude and returns its reply.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// Checker prints the diagnostic to an output writer.
type Checker struct {
	client notion.DatabaseQuerier
	out    io.Writer

	checkClaude bool
	claude      Pinger

	ok   lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
	head lipgloss.Style
}

// Option configures a Checker.
type Option func(*checkerOptions)

type checkerOptions struct {
	noColor     bool
	checkClaude bool
	claude      Pinger
}

// WithNoColor forces plain output even on a color terminal.
func WithNoColor() Option {
	return func(o *checkerOptions) { o.noColor = true }
}

// WithClaude adds the Claude check and a combined verdict after the Notion
// check. A nil p means ANTHROPIC_API_KEY is not set; no request is made.
func WithClaude(p Pinger) Option {
	return func(o *checkerOptions) {
		o.checkClaude = true
		o.claude = p
	}
}

// New creates a Checker that queries through client and writes to out.
func New(client notion.DatabaseQuerier, out io.Writer, opts ...Option) *Checker {
	var o checkerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var r *lipgloss.Renderer
	if o.noColor {
		r = lipgloss.NewRenderer(out, termenv.WithProfile(termenv.Ascii))
	} else {
		r = lipgloss.NewRenderer(out)
	}

	return &Checker{
		client:      client,
		out:         out,
		checkClaude: o.checkClaude,
		claude:      o.claude,
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		head:   r.NewStyle().Bold(true),
	}
}

// Run performs the check once and returns the Notion outcome. It never makes
// a network call for a service whose API key is not configured.
func (c *Checker) Run(ctx context.Context) Result {
	res := c.runNotion(ctx)
	if c.checkClaude {
		c.verdict(res == ResultOK || res == ResultEmpty, c.runClaude(ctx))
	}
	return res
}

func (c *Checker) runNotion(ctx context.Context) Result {
	c.println()
	c.println(c.head.Render("Testing Notion API connection..."))
	c.println()

	if !c.client.Configured() {
		c.missingKey()
		return ResultMissingKey
	}

	c.printf("%s API key found in .env\n", c.ok.Render("✓"))
	c.printf("%s Database ID: %s\n", c.ok.Render("✓"), notion.VocabularyDatabaseID)
	c.println()
	c.println("Fetching data from Notion...")
	c.println()

	resp, err := c.client.QueryDatabase(ctx, notion.VocabularyDatabaseID, notion.StatusQuery(notion.StatusEnriched))
	if errors.Is(err, notion.ErrMissingAPIKey) {
		c.missingKey()
		return ResultMissingKey
	}
	if err != nil {
		c.networkError(err)
		return ResultNetworkError
	}

	c.printf("Response status: %d %s\n", resp.StatusCode, resp.Status)

	if !resp.OK() {
		c.upstreamError(resp)
		return ResultUpstreamError
	}

	result, err := notion.DecodeQueryResult(resp.Body)
	if err != nil {
		c.invalidResponse(err)
		return ResultInvalidResponse
	}

	c.println(c.ok.Render("Success!") + " Retrieved data from Notion")
	c.println()
	c.printf("Total results: %d\n", len(result.Results))

	if len(result.Results) == 0 {
		c.println()
		c.printf("%s No words found with Status = %q\n", c.warn.Render("WARNING:"), notion.StatusEnriched)
		c.println()
		c.println("Make sure you have words in your Notion database with:")
		c.printf("   - Status property set to %q\n", notion.StatusEnriched)
		c.println()
		return ResultEmpty
	}

	c.println()
	c.println(c.head.Render("Sample words found:"))
	for i, page := range result.Results {
		if i == previewCount {
			break
		}
		word := page.Title(notion.PropName)
		if word == "" {
			word = "Unknown"
		}
		def := page.RichText(notion.PropBriefDefinition)
		if def == "" {
			def = "No definition"
		}
		c.println()
		c.printf("%d. %s\n", i+1, word)
		c.printf("   %s...\n", truncate(def, definitionWidth))
	}
	c.println()
	c.println(c.ok.Render("Everything looks good!") + " The app should work.")
	c.println()
	return ResultOK
}

func (c *Checker) missingKey() {
	c.printf("%s %s\n", c.fail.Render("ERROR:"), notion.ErrMissingAPIKey)
	c.println()
	c.println("Please add your Notion integration token to the .env file:")
	c.println("NOTION_API_KEY=your_token_here")
	c.println()
}

func (c *Checker) upstreamError(resp *notion.Response) {
	c.println()
	c.println(c.fail.Render("Notion API Error:"))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp.Body, "", "  "); err != nil {
		c.println(string(resp.Body))
	} else {
		c.println(pretty.String())
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return
	}
	c.println()
	c.println("This usually means:")
	c.println("   1. Your API token is invalid")
	c.println("   2. You need to share the database with your integration")
	c.println()
	c.println("To fix:")
	c.println("   1. Go to your Notion database")
	c.println("   2. Click the ••• menu → Connections")
	c.println("   3. Add your integration")
	c.println()
}

func (c *Checker) networkError(err error) {
	c.println()
	c.printf("%s %v\n", c.fail.Render("Network Error:"), err)
	c.println()
	c.println("This might mean:")
	c.println("   - No internet connection")
	c.println("   - Firewall blocking the request")
	c.println("   - Invalid database ID")
	c.println()
}

func (c *Checker) invalidResponse(err error) {
	c.println()
	c.printf("%s %v\n", c.fail.Render("Error parsing response:"), err)
	c.println()
	c.println("Notion answered with a success status but the body is not valid JSON.")
	c.println("This might mean:")
	c.println("   - A proxy or captive portal answered instead of Notion")
	c.println("   - NOTION_BASE_URL points at the wrong server")
	c.println()
}

func (c *Checker) runClaude(ctx context.Context) bool {
	c.println(c.head.Render("Testing Anthropic API connection..."))
	c.println()

	if c.claude == nil {
		c.printf("%s ANTHROPIC_API_KEY not set\n", c.fail.Render("ERROR:"))
		c.println()
		return false
	}

	reply, err := c.claude.Ping(ctx)
	if err != nil {
		c.printf("%s %v\n", c.fail.Render("Connection failed:"), err)
		c.println()
		return false
	}
	c.printf("%s Connected! Claude says: %s\n", c.ok.Render("✓"), strings.TrimSpace(reply))
	c.println()
	return true
}

func (c *Checker) verdict(notionOK, claudeOK bool) {
	rule := strings.Repeat("=", 60)
	c.println(rule)
	defer c.println(rule)

	if notionOK && claudeOK {
		c.println(c.ok.Render("All tests passed!") + " You're ready to run the enrichment script.")
		c.println()
		c.println("Run: lexicon enrich")
		return
	}

	c.println(c.fail.Render("Some tests failed.") + " Please check your API keys.")
	if !notionOK {
		c.println()
		c.println("To fix Notion:")
		c.println("   1. Get your key from: https://www.notion.so/my-integrations")
		c.println("   2. Share your database with the integration")
		c.println("   3. Set NOTION_API_KEY in your .env file")
	}
	if !claudeOK {
		c.println()
		c.println("To fix Anthropic:")
		c.println("   1. Get your key from: https://console.anthropic.com/")
		c.println("   2. Set ANTHROPIC_API_KEY in your .env file")
	}
}

func (c *Checker) println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

func (c *Checker) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
