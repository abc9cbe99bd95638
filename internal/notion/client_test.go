package notion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

func TestQueryDatabase_SendsFixedRequest(t *testing.T) {
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/"+notion.VocabularyDatabaseID+"/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, notion.APIVersion, r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","results":[]}`))
	}))
	defer upstream.Close()

	c := notion.NewClient("secret", notion.WithBaseURL(upstream.URL))
	resp, err := c.QueryDatabase(context.Background(), notion.VocabularyDatabaseID, notion.StatusQuery(notion.StatusEnriched))
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.Status)
	assert.JSONEq(t, `{"object":"list","results":[]}`, string(resp.Body))
	assert.JSONEq(t, `{"filter":{"property":"Status","select":{"equals":"Enriched"}}}`, string(gotBody))
}

func TestQueryDatabase_NonSuccessIsNotAnError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	}))
	defer upstream.Close()

	c := notion.NewClient("bad", notion.WithBaseURL(upstream.URL))
	resp, err := c.QueryDatabase(context.Background(), notion.VocabularyDatabaseID, notion.StatusQuery(notion.StatusEnriched))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	apiErr := notion.DecodeAPIError(resp)
	var typed *notion.APIError
	require.ErrorAs(t, apiErr, &typed)
	assert.Equal(t, "unauthorized", typed.Code)
	assert.Equal(t, "API token is invalid.", typed.Message)
}

func TestQueryDatabase_MissingKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	c := notion.NewClient("", notion.WithBaseURL(upstream.URL))
	assert.False(t, c.Configured())

	_, err := c.QueryDatabase(context.Background(), notion.VocabularyDatabaseID, notion.Query{})
	assert.True(t, errors.Is(err, notion.ErrMissingAPIKey))

	err = c.UpdatePage(context.Background(), "page-1", notion.Properties{})
	assert.True(t, errors.Is(err, notion.ErrMissingAPIKey))

	assert.Zero(t, calls.Load())
}

func TestQueryDatabase_NetworkError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	c := notion.NewClient("secret", notion.WithBaseURL(url))
	_, err := c.QueryDatabase(context.Background(), notion.VocabularyDatabaseID, notion.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling Notion")
}

func TestWithTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer upstream.Close()

	tests := []struct {
		name string
		opts func(shared *http.Client) []notion.Option
	}{
		{
			name: "timeout before http client",
			opts: func(shared *http.Client) []notion.Option {
				return []notion.Option{notion.WithTimeout(50 * time.Millisecond), notion.WithHTTPClient(shared)}
			},
		},
		{
			name: "timeout after http client",
			opts: func(shared *http.Client) []notion.Option {
				return []notion.Option{notion.WithHTTPClient(shared), notion.WithTimeout(50 * time.Millisecond)}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shared := &http.Client{}
			opts := append([]notion.Option{notion.WithBaseURL(upstream.URL)}, tc.opts(shared)...)
			c := notion.NewClient("secret", opts...)

			start := time.Now()
			_, err := c.QueryDatabase(context.Background(), notion.VocabularyDatabaseID, notion.Query{})
			require.Error(t, err)
			assert.Less(t, time.Since(start), time.Second)
			assert.Zero(t, shared.Timeout, "caller's client must not be modified")
		})
	}
}

func TestUpdatePage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "success", status: http.StatusOK, body: `{"object":"page"}`},
		{name: "validation error", status: http.StatusBadRequest, body: `{"object":"error","status":400,"code":"validation_error","message":"bad"}`, wantErr: true},
		{name: "non-JSON error", status: http.StatusBadGateway, body: `<html>`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got map[string]any
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "/pages/page-1", r.URL.Path)
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer upstream.Close()

			props := notion.Properties{}
			props.SetRichText(notion.PropBriefDefinition, "short")
			props.SetSelect(notion.PropStatus, notion.StatusEnriched)

			c := notion.NewClient("secret", notion.WithBaseURL(upstream.URL+"/"))
			err := c.UpdatePage(context.Background(), "page-1", props)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			want := `{"properties":{
				"Brief Definition":{"rich_text":[{"text":{"content":"short"}}]},
				"Status":{"select":{"name":"Enriched"}}
			}}`
			b, _ := json.Marshal(got)
			assert.JSONEq(t, want, string(b))
		})
	}
}

func TestPageAccessors(t *testing.T) {
	body := []byte(`{"object":"list","results":[
		{"id":"p1","properties":{
			"Name":{"type":"title","title":[{"text":{"content":"liminal"}}]},
			"Brief Definition":{"type":"rich_text","rich_text":[{"text":{"content":"at a threshold"}}]}
		}},
		{"id":"p2","properties":{"Name":{"type":"title","title":[]}}}
	]}`)

	qr, err := notion.DecodeQueryResult(body)
	require.NoError(t, err)
	require.Len(t, qr.Results, 2)

	assert.Equal(t, "liminal", qr.Results[0].Title(notion.PropName))
	assert.Equal(t, "at a threshold", qr.Results[0].RichText(notion.PropBriefDefinition))
	assert.Equal(t, "", qr.Results[1].Title(notion.PropName))
	assert.Equal(t, "", qr.Results[1].RichText(notion.PropBriefDefinition))
}
