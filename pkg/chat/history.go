package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// History persists chat messages to a local JSON file.
type History struct {
	Messages []Message `json:"messages"`
	mu       sync.RWMutex
	filePath string
}

// NewHistory creates a history manager backed by filePath, loading any
// existing contents.
func NewHistory(filePath string) (*History, error) {
	h := &History{
		Messages: make([]Message, 0),
		filePath: filePath,
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := h.load(); err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
	}

	return h, nil
}

// Add appends a message and saves to disk.
func (h *History) Add(msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Messages = append(h.Messages, msg)
	return h.save()
}

// GetMessages returns a copy of all messages.
func (h *History) GetMessages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msgs := make([]Message, len(h.Messages))
	copy(msgs, h.Messages)
	return msgs
}

// GetLastN returns the last n messages.
func (h *History) GetLastN(n int) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || len(h.Messages) == 0 {
		return []Message{}
	}
	if n > len(h.Messages) {
		n = len(h.Messages)
	}

	result := make([]Message, n)
	copy(result, h.Messages[len(h.Messages)-n:])
	return result
}

// Clear removes all messages and saves.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Messages = make([]Message, 0)
	return h.save()
}

func (h *History) save() error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(h.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

func (h *History) load() error {
	data, err := os.ReadFile(h.filePath)
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	if err := json.Unmarshal(data, h); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	return nil
}
