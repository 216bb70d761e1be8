package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/brickchat/brickchat/pkg/chat"
)

// Threads fetches all of a user's threads with their last messages, most
// recently active first.
func (c *Client) Threads(ctx context.Context, userID string) ([]chat.Thread, error) {
	var payload struct {
		Threads []chat.Thread `json:"threads"`
	}
	path := fmt.Sprintf("/api/chat/threads/%s", url.PathEscape(userID))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	return payload.Threads, nil
}

// ThreadMessages fetches the persisted messages of one thread in
// chronological order.
func (c *Client) ThreadMessages(ctx context.Context, threadID string) ([]chat.ThreadMessage, error) {
	var payload struct {
		Messages []chat.ThreadMessage `json:"messages"`
	}
	path := fmt.Sprintf("/api/chat/threads/%s/messages", url.PathEscape(threadID))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch thread messages: %w", err)
	}
	return payload.Messages, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
