package tts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/brickchat/brickchat/pkg/logger"
)

// AudioChunk is one decoded piece of synthesized audio, or the error that
// ended the stream.
type AudioChunk struct {
	Data []byte
	Err  error
}

// Client talks to the backend's streaming TTS endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a TTS client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// speakFrame is one SSE payload from the TTS endpoint, discriminated by Type:
// "audio" carries a base64 chunk, "done" and "error" are terminal.
type speakFrame struct {
	Type    string `json:"type"`
	Chunk   string `json:"chunk"`
	Message string `json:"message"`
}

// SpeakStream synthesizes text and returns a channel of decoded audio
// chunks. The channel closes when synthesis completes, fails, or ctx is
// cancelled.
func (c *Client) SpeakStream(ctx context.Context, text, voice string) (<-chan AudioChunk, error) {
	body, err := json.Marshal(speakRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/tts/speak-stream", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(errorBody))
	}

	chunks := make(chan AudioChunk, 16)
	go c.readStream(ctx, resp.Body, chunks)
	return chunks, nil
}

// readStream decodes the SSE audio frames off the response body.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, chunks chan<- AudioChunk) {
	defer close(chunks)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			chunks <- AudioChunk{Err: ctx.Err()}
			return
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var f speakFrame
		if err := json.Unmarshal([]byte(strings.TrimSpace(line[len("data:"):])), &f); err != nil {
			logger.Debug("Skipping malformed TTS frame: %v", err)
			continue
		}

		switch f.Type {
		case "audio":
			data, err := base64.StdEncoding.DecodeString(f.Chunk)
			if err != nil {
				logger.Debug("Skipping undecodable audio chunk: %v", err)
				continue
			}
			chunks <- AudioChunk{Data: data}
		case "done":
			return
		case "error":
			chunks <- AudioChunk{Err: fmt.Errorf("tts failed: %s", f.Message)}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		chunks <- AudioChunk{Err: fmt.Errorf("tts stream reading error: %w", err)}
	}
}

// Speak synthesizes text, gathers the full audio, and starts playback on p.
func Speak(ctx context.Context, c *Client, p Player, text, voice string) (Handle, error) {
	chunks, err := c.SpeakStream(ctx, text, voice)
	if err != nil {
		return 0, err
	}

	var audio []byte
	for chunk := range chunks {
		if chunk.Err != nil {
			return 0, chunk.Err
		}
		audio = append(audio, chunk.Data...)
	}
	if len(audio) == 0 {
		return 0, fmt.Errorf("tts produced no audio")
	}
	return p.Play(audio)
}
