package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"grantsync/internal/dedup"
	"grantsync/internal/models"
	"grantsync/internal/store"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeNotion отвечает status/body на любой запрос и запоминает последний.
func fakeNotion(t *testing.T, status int, body string) (*store.Notion, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		if r.Body != nil {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				return nil, err
			}
			captured.Body = map[string]any{}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &captured.Body); err != nil {
					return nil, err
				}
			}
		}
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})

	n := store.NewNotionWithClient("secret_token", "db-id", &http.Client{Transport: transport})
	return n, captured
}

const notionError = `{"object":"error","status":400,"code":"validation_error","message":"invalid filter"}`

func TestNotionFindByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("match found", func(t *testing.T) {
		n, req := fakeNotion(t, http.StatusOK,
			`{"object":"list","results":[{"object":"page","id":"page-1"}],"has_more":false}`)

		count, err := n.FindByIdentifier(ctx, "PBLN_1")
		require.NoError(t, err)
		require.Equal(t, 1, count)

		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "/v1/databases/db-id/query", req.Path)
		filter, ok := req.Body["filter"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, store.PropIdentifier, filter["property"])
		require.Equal(t, map[string]any{"equals": "PBLN_1"}, filter["rich_text"])
	})

	t.Run("no match", func(t *testing.T) {
		n, _ := fakeNotion(t, http.StatusOK, `{"object":"list","results":[],"has_more":false}`)

		count, err := n.FindByIdentifier(ctx, "PBLN_2")
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("error response", func(t *testing.T) {
		n, _ := fakeNotion(t, http.StatusBadRequest, notionError)

		_, err := n.FindByIdentifier(ctx, "PBLN_3")
		require.Error(t, err)
	})

	t.Run("error response fails open in checker", func(t *testing.T) {
		n, _ := fakeNotion(t, http.StatusBadRequest, notionError)

		dup, err := dedup.NewChecker(n).IsDuplicate(ctx, "PBLN_3")
		require.ErrorIs(t, err, store.ErrQuery)
		require.False(t, dup)
	})
}

func TestNotionCreate(t *testing.T) {
	ctx := context.Background()
	rec := models.Record{
		Identifier:       "PBLN_1",
		Title:            "20260301_공고",
		Jurisdiction:     models.Seoul,
		Agency:           "서울특별시청",
		RegistrationDate: "2026-02-28",
	}

	t.Run("page request", func(t *testing.T) {
		n, req := fakeNotion(t, http.StatusOK, `{"object":"page","id":"page-1"}`)

		require.NoError(t, n.Create(ctx, rec))
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "/v1/pages", req.Path)

		parent, ok := req.Body["parent"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "db-id", parent["database_id"])

		props, ok := req.Body["properties"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, map[string]any{"date": map[string]any{"start": "2026-02-28"}}, props[store.PropRegistered])
		require.NotContains(t, props, store.PropURL)
	})

	t.Run("error response", func(t *testing.T) {
		n, _ := fakeNotion(t, http.StatusBadRequest, notionError)

		_, err := store.NewWriter(n).Write(ctx, rec)
		require.ErrorIs(t, err, store.ErrCreate)
	})
}
