// Package client talks to the BrickChat backend: sending chat messages on
// the streaming and non-streaming paths and browsing persisted threads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brickchat/brickchat/pkg/chat"
	"github.com/brickchat/brickchat/pkg/footnotes"
)

const defaultTimeout = 90 * time.Second

// Client is the HTTP client for the BrickChat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// SendRequest is the outbound body for the chat-send endpoint.
type SendRequest struct {
	Message             string              `json:"message"`
	ConversationHistory []chat.HistoryEntry `json:"conversation_history,omitempty"`
	ThreadID            string              `json:"thread_id,omitempty"`
	UserID              string              `json:"user_id"`
	Stream              bool                `json:"stream"`
}

// SendResponse is the non-streaming reply. Response holds the full assistant
// text, already footnote-renumbered by the client before it is returned.
type SendResponse struct {
	Response           string                 `json:"response"`
	ThreadID           string                 `json:"thread_id"`
	UserMessageID      string                 `json:"user_message_id"`
	AssistantMessageID string                 `json:"assistant_message_id"`
	Status             string                 `json:"status"`
	Footnotes          []footnotes.Definition `json:"-"`
}

// NewClient creates a client with the default request timeout. The timeout
// applies to the non-streaming and thread-browsing calls; streaming requests
// use their context instead.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, defaultTimeout)
}

// NewClientWithTimeout creates a client with a custom timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts a message on the non-streaming path and returns the complete
// reply. Footnote definitions embedded in the text are extracted and the
// inline references rewritten before the response is handed back.
func (c *Client) Send(ctx context.Context, req SendRequest) (SendResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return SendResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat/send", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return SendResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return SendResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SendResponse{}, statusError(resp)
	}

	var sendResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return SendResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	sendResp.Response, sendResp.Footnotes = footnotes.Renumber(sendResp.Response)
	return sendResp, nil
}

// statusError reads the error body of a non-200 response and folds it into a
// single error value.
func statusError(resp *http.Response) error {
	errorBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d (failed to read error response: %w)", resp.StatusCode, err)
	}

	var errorResp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(errorBody, &errorResp) == nil {
		if errorResp.Error != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errorResp.Error)
		}
		if errorResp.Detail != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errorResp.Detail)
		}
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(errorBody))
}
