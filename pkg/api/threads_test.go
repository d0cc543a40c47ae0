package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListThreads(t *testing.T) {
	t.Run("should decode the thread listing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/threads", r.URL.Path)
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "joke", r.URL.Query().Get("search"))

			fmt.Fprint(w, `{"success":true,"data":{"threads":[
				{"_id":"T1","title":"Jokes","model":"gpt-4o"},
				{"_id":"T2","title":"More jokes","model":"gpt-4o"}
			],"total":2}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		page, err := client.ListThreads(context.Background(), ListThreadsOptions{Limit: 10, Search: "joke"})
		require.NoError(t, err)

		assert.Equal(t, 2, page.Total)
		require.Len(t, page.Threads, 2)
		assert.Equal(t, "T1", page.Threads[0].ID)
		assert.Equal(t, "Jokes", page.Threads[0].Title)
	})

	t.Run("should surface the envelope error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":false,"error":"not signed in"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		_, err := client.ListThreads(context.Background(), ListThreadsOptions{})
		require.Error(t, err)

		var rerr *RequestError
		require.True(t, errors.As(err, &rerr))
		assert.Contains(t, rerr.Error(), "not signed in")
	})
}

func TestUpdateThread(t *testing.T) {
	t.Run("should send only the set fields", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/threads/T1", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			fmt.Fprint(w, `{"success":true,"data":{"thread":{"_id":"T1","title":"Renamed"}}}`)
		}))
		defer server.Close()

		title := "Renamed"
		client := NewClient(server.URL, nil)
		thread, err := client.UpdateThread(context.Background(), "T1", ThreadUpdate{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", thread.Title)
		assert.Equal(t, map[string]any{"title": "Renamed"}, body)
	})
}

func TestDeleteThread(t *testing.T) {
	t.Run("should issue a DELETE", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"success":true}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		require.NoError(t, client.DeleteThread(context.Background(), "T1"))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/threads/T1", gotPath)
	})
}

func TestThreadMessages(t *testing.T) {
	t.Run("should decode persisted messages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/threads/T1/messages", r.URL.Path)
			fmt.Fprint(w, `{"success":true,"data":{"messages":[
				{"_id":"m1","role":"user","content":"hi"},
				{"_id":"m2","role":"assistant","content":"hello","model":"gpt-4o"}
			]}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		msgs, err := client.ThreadMessages(context.Background(), "T1")
		require.NoError(t, err)

		require.Len(t, msgs, 2)
		assert.Equal(t, "user", msgs[0].Role)
		assert.Equal(t, "gpt-4o", msgs[1].Model)
	})
}

func TestModels(t *testing.T) {
	t.Run("should fetch each catalog variant from its endpoint", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			fmt.Fprint(w, `{"success":true,"data":{"models":[{"name":"gpt-4o","provider":"openai"}]}}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		ctx := context.Background()

		models, err := client.Models(ctx)
		require.NoError(t, err)
		require.Len(t, models, 1)
		assert.Equal(t, "gpt-4o", models[0].Name)

		_, err = client.ImportantModels(ctx)
		require.NoError(t, err)
		_, err = client.AllModels(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{"/chat/models", "/chat/models/important", "/chat/models/all"}, paths)
	})
}

func TestStaticTokenProvider(t *testing.T) {
	t.Run("should report signed out for an empty token", func(t *testing.T) {
		p := NewStaticTokenProvider("")
		assert.False(t, p.SignedIn())

		token, err := p.Token(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("should hand out the configured token", func(t *testing.T) {
		p := NewStaticTokenProvider("abc")
		assert.True(t, p.SignedIn())

		token, err := p.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})
}
