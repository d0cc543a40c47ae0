package api

import (
	"context"
	"net/http"
)

// ModelInfo describes one selectable model. The session core only passes
// Name through; the rest is display metadata.
type ModelInfo struct {
	Name        string `json:"name"`
	Provider    string `json:"provider,omitempty"`
	Description string `json:"description,omitempty"`
}

type modelsData struct {
	Models []ModelInfo `json:"models"`
}

// Models returns the default selectable model list.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	var data modelsData
	if err := c.doJSON(ctx, http.MethodGet, "/chat/models", nil, &data); err != nil {
		return nil, err
	}
	return data.Models, nil
}

// ImportantModels returns the curated shortlist.
func (c *Client) ImportantModels(ctx context.Context) ([]ModelInfo, error) {
	var data modelsData
	if err := c.doJSON(ctx, http.MethodGet, "/chat/models/important", nil, &data); err != nil {
		return nil, err
	}
	return data.Models, nil
}

// AllModels returns every model the backend knows about.
func (c *Client) AllModels(ctx context.Context) ([]ModelInfo, error) {
	var data modelsData
	if err := c.doJSON(ctx, http.MethodGet, "/chat/models/all", nil, &data); err != nil {
		return nil, err
	}
	return data.Models, nil
}
