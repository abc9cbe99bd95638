package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

type fakeStore struct {
	body    string
	updated []string
}

func (f *fakeStore) Configured() bool { return true }

func (f *fakeStore) QueryDatabase(context.Context, string, notion.Query) (*notion.Response, error) {
	return &notion.Response{StatusCode: http.StatusOK, Body: []byte(f.body)}, nil
}

func (f *fakeStore) UpdatePage(_ context.Context, pageID string, _ notion.Properties) error {
	f.updated = append(f.updated, pageID)
	return nil
}

type fakeEnricher struct{}

func (fakeEnricher) Enrich(context.Context, Word) (*Enrichment, error) {
	return &Enrichment{BriefDefinition: "d"}, nil
}

func TestRunner_SleepsBetweenWordsOnly(t *testing.T) {
	store := &fakeStore{body: `{"results":[
		{"id":"a","properties":{"Name":{"title":[{"text":{"content":"one"}}]}}},
		{"id":"b","properties":{"Name":{"title":[{"text":{"content":"two"}}]}}},
		{"id":"c","properties":{"Name":{"title":[{"text":{"content":"three"}}]}}}
	]}`}

	r := NewRunner(store, fakeEnricher{}, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	var sleeps []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Enriched)
	assert.Equal(t, []string{"a", "b", "c"}, store.updated)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
}

func TestRunner_CanceledDuringDelay(t *testing.T) {
	store := &fakeStore{body: `{"results":[
		{"id":"a","properties":{"Name":{"title":[{"text":{"content":"one"}}]}}},
		{"id":"b","properties":{"Name":{"title":[{"text":{"content":"two"}}]}}}
	]}`}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(store, fakeEnricher{}, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	sum, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.Enriched)
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare", in: ` {"a":1} `, want: `{"a":1}`},
		{name: "json fence", in: "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy", want: `{"a":1}`},
		{name: "plain fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripFence(tc.in))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(Word{Word: "sonder", BriefDefinition: "old def"})
	assert.Contains(t, p, `Word: "sonder"`)
	assert.Contains(t, p, "Existing definition: old def")
	assert.NotContains(t, p, "Existing emotional texture")
	assert.Contains(t, p, `"contextual_examples"`)
}
