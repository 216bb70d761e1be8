package chat

import (
	"fmt"
	"sync"

	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/brickchat/brickchat/pkg/logger"
	"github.com/brickchat/brickchat/pkg/stream"
)

// Manager owns the live conversation, the persisted history behind it, and
// the thread id correlating both with the backend.
type Manager struct {
	mu           sync.RWMutex
	conversation Conversation
	history      *History
}

// NewManager creates a chat manager persisting to historyPath.
func NewManager(historyPath string) (*Manager, error) {
	logger.Debug("Creating chat manager with history path: %s", historyPath)

	history, err := NewHistory(historyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create history: %w", err)
	}

	return &Manager{
		conversation: NewConversation(),
		history:      history,
	}, nil
}

// Conversation returns a copy of the current conversation.
func (m *Manager) Conversation() Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Conversation{
		Messages: GetMessages(m.conversation),
		ThreadID: m.conversation.ThreadID,
	}
}

// ThreadID returns the current thread id, empty before the backend assigns
// one.
func (m *Manager) ThreadID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conversation.ThreadID
}

// SetThreadID records the thread id for subsequent requests. An empty id is
// ignored so late metadata cannot clear an established thread.
func (m *Manager) SetThreadID(id string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversation.ThreadID = id
}

// AddUserMessage appends a user message to the conversation and history.
func (m *Manager) AddUserMessage(content string) (Message, error) {
	msg := NewUserMessage(content)
	if err := m.append(msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// AppendAssembled finalizes a streamed assistant message into the
// conversation: the accumulated text is footnote-renumbered for display,
// merged with any footnotes that arrived as separate batches, and persisted.
func (m *Manager) AppendAssembled(am stream.AssembledMessage) (Message, error) {
	body, defs := footnotes.Renumber(am.Text)

	msg := NewAssistantMessage(body)
	if am.ID != "" {
		msg.ID = am.ID
	}
	msg.ServerID = am.MessageID
	msg.AgentEndpoint = am.AgentEndpoint
	merged := make([]footnotes.Definition, 0, len(am.Footnotes)+len(defs))
	merged = append(merged, am.Footnotes...)
	merged = append(merged, defs...)
	msg.Footnotes = merged

	m.SetThreadID(am.ThreadID)

	if err := m.append(msg); err != nil {
		return Message{}, err
	}

	if am.CompletedImplicitly {
		logger.Warn("Stream for message %s closed without a done frame; treated as complete", msg.ID)
	}
	return msg, nil
}

// AddErrorMessage records a local error in the conversation without sending
// it back to the backend on later requests.
func (m *Manager) AddErrorMessage(content string) (Message, error) {
	msg := NewErrorMessage(content)
	if err := m.append(msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (m *Manager) append(msg Message) error {
	m.mu.Lock()
	m.conversation = AddMessage(m.conversation, msg)
	m.mu.Unlock()

	if err := m.history.Add(msg); err != nil {
		return fmt.Errorf("failed to persist message: %w", err)
	}
	return nil
}

// LoadThread replaces the conversation with messages fetched from a
// server-side thread.
func (m *Manager) LoadThread(threadID string, msgs []ThreadMessage) {
	conv := NewConversation()
	for _, tm := range msgs {
		conv = AddMessage(conv, tm.AsMessage())
	}
	conv.ThreadID = threadID

	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversation = conv
}

// Reset starts a fresh conversation, leaving persisted history untouched.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversation = NewConversation()
}

// ClearHistory wipes the persisted history file.
func (m *Manager) ClearHistory() error {
	return m.history.Clear()
}

// HistoryMessages returns the persisted messages.
func (m *Manager) HistoryMessages() []Message {
	return m.history.GetMessages()
}
