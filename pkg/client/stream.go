package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brickchat/brickchat/pkg/logger"
	"github.com/brickchat/brickchat/pkg/stream"
)

// StreamSend posts a message on the streaming path and folds the response
// into a fresh assembler, blocking until the stream ends. Every transition is
// published through handler as it happens.
//
// A non-200 status before any streaming surfaces as a single OnError call and
// a returned error; no assembler, and so no partial message, is created. Once
// streaming has begun, cancelling ctx closes the connection and abandons the
// in-flight message.
func (c *Client) StreamSend(ctx context.Context, req SendRequest, handler stream.Handler) (*stream.Assembler, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat/send", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	// The streaming transport carries no client timeout; lifetime is governed
	// by ctx.
	resp, err := (&http.Client{}).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		resp.Body.Close()
		if handler != nil {
			handler.OnError(err)
		}
		return nil, err
	}

	defer resp.Body.Close()

	asm := stream.NewAssembler(handler)
	if err := stream.Consume(ctx, resp.Body, asm); err != nil {
		logger.Error("Stream consumption ended: %v", err)
		return asm, err
	}
	return asm, nil
}
