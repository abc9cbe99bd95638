package notion

import (
	"encoding/json"
	"fmt"
)

// Status values used by the lexicon workflow.
const (
	StatusReady    = "Ready"
	StatusEnriched = "Enriched"
)

// Property names in the vocabulary database.
const (
	PropName               = "Name"
	PropStatus             = "Status"
	PropBriefDefinition    = "Brief Definition"
	PropEmotionalTexture   = "Emotional Texture"
	PropContextualExamples = "Contextual Examples"
)

// Query is the body of a database query request.
type Query struct {
	Filter   *Filter `json:"filter,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// Filter is a single property filter.
type Filter struct {
	Property string           `json:"property"`
	Select   *SelectCondition `json:"select,omitempty"`
}

// SelectCondition matches a select property by option name.
type SelectCondition struct {
	Equals string `json:"equals"`
}

// StatusQuery selects pages whose Status select equals status.
func StatusQuery(status string) Query {
	return Query{
		Filter: &Filter{
			Property: PropStatus,
			Select:   &SelectCondition{Equals: status},
		},
	}
}

// QueryResult is the decoded shape of a database query reply.
type QueryResult struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// DecodeQueryResult parses a successful query body.
func DecodeQueryResult(body []byte) (*QueryResult, error) {
	var qr QueryResult
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("parsing query result: %w", err)
	}
	return &qr, nil
}

// Page is a database row.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property holds the subset of property payloads the lexicon reads.
type Property struct {
	Type     string        `json:"type,omitempty"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
}

// RichText is one fragment of a title or rich_text property.
type RichText struct {
	Text *Text `json:"text,omitempty"`
}

// Text is the text payload of a rich text fragment.
type Text struct {
	Content string `json:"content"`
}

// SelectOption names a select value.
type SelectOption struct {
	Name string `json:"name"`
}

// Title returns the content of the first fragment of the title property name,
// or "" when absent.
func (p Page) Title(name string) string {
	return firstContent(p.Properties[name].Title)
}

// RichText returns the content of the first fragment of the rich text property
// name, or "" when absent.
func (p Page) RichText(name string) string {
	return firstContent(p.Properties[name].RichText)
}

func firstContent(frags []RichText) string {
	if len(frags) == 0 || frags[0].Text == nil {
		return ""
	}
	return frags[0].Text.Content
}

// Properties is the payload of a page update keyed by property name.
type Properties map[string]Property

// SetRichText sets name to a single rich text fragment holding content.
func (p Properties) SetRichText(name, content string) {
	p[name] = Property{RichText: []RichText{{Text: &Text{Content: content}}}}
}

// SetSelect sets the select property name to option.
func (p Properties) SetSelect(name, option string) {
	p[name] = Property{Select: &SelectOption{Name: option}}
}

// APIError is the error object Notion returns with non-2xx responses.
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion API error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion API error %d: %s", e.Status, e.Message)
}

// DecodeAPIError turns a non-2xx reply into an *APIError. Bodies that are not
// JSON yield a parse error instead.
func DecodeAPIError(resp *Response) error {
	var apiErr APIError
	if err := json.Unmarshal(resp.Body, &apiErr); err != nil {
		return fmt.Errorf("parsing Notion error response (status %d): %w", resp.StatusCode, err)
	}
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return &apiErr
}
