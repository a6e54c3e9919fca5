package notion

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is the body Notion returns with every 4xx/5xx response.
type Error struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion API error %s (status %d): %s", e.Code, e.Status, e.Message)
}

// HasStatus reports whether err carries a Notion API error with one of the
// given HTTP statuses.
func HasStatus(err error, statuses ...int) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, status := range statuses {
		if apiErr.Status == status {
			return true
		}
	}
	return false
}

type QueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryResponse keeps result pages raw; properties are read with gjson paths.
type QueryResponse struct {
	Object     string            `json:"object"`
	Results    []json.RawMessage `json:"results"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type PageRequest struct {
	Parent     *Parent        `json:"parent,omitempty"`
	Properties map[string]any `json:"properties"`
}

type PageResponse struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type TextFilter struct {
	Equals string `json:"equals"`
}

type PropertyFilter struct {
	Property string      `json:"property"`
	RichText *TextFilter `json:"rich_text,omitempty"`
}

type CompoundFilter struct {
	Or []PropertyFilter `json:"or,omitempty"`
}
