package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Thread is one persisted conversation record from the thread directory.
type Thread struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ThreadsPage is one page of thread listings.
type ThreadsPage struct {
	Threads []Thread `json:"threads"`
	Total   int      `json:"total"`
}

// ThreadMessage is a persisted message as stored server-side.
type ThreadMessage struct {
	ID        string    `json:"_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListThreadsOptions filters and pages the thread listing. Zero values are
// omitted from the query.
type ListThreadsOptions struct {
	Limit  int
	Skip   int
	Search string
}

// ThreadUpdate carries the mutable thread fields; nil fields are untouched.
type ThreadUpdate struct {
	Title *string `json:"title,omitempty"`
	Model *string `json:"model,omitempty"`
}

// ListThreads returns the caller's persisted conversations.
func (c *Client) ListThreads(ctx context.Context, opts ListThreadsOptions) (*ThreadsPage, error) {
	params := url.Values{}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		params.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}

	var page ThreadsPage
	if err := c.doJSON(ctx, http.MethodGet, queryPath("/threads", params), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateThread renames a thread or changes its pinned model.
func (c *Client) UpdateThread(ctx context.Context, threadID string, update ThreadUpdate) (*Thread, error) {
	var data struct {
		Thread Thread `json:"thread"`
	}
	path := fmt.Sprintf("/threads/%s", url.PathEscape(threadID))
	if err := c.doJSON(ctx, http.MethodPut, path, update, &data); err != nil {
		return nil, err
	}
	return &data.Thread, nil
}

// DeleteThread removes a thread and its messages server-side.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	path := fmt.Sprintf("/threads/%s", url.PathEscape(threadID))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// ThreadMessages fetches a thread's persisted history, oldest first.
func (c *Client) ThreadMessages(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	var data struct {
		Messages []ThreadMessage `json:"messages"`
	}
	path := fmt.Sprintf("/threads/%s/messages", url.PathEscape(threadID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Messages, nil
}
