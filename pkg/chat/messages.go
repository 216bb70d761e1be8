package chat

import (
	"strings"
	"time"

	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/google/uuid"
)

// Message is one entry in a conversation. ID is client-generated and stable
// for the message's lifetime; ServerID is filled in once the backend has
// persisted the message.
type Message struct {
	ID            string                 `json:"id"`
	ServerID      string                 `json:"server_id,omitempty"`
	Role          string                 `json:"role"`
	Content       string                 `json:"content"`
	Footnotes     []footnotes.Definition `json:"footnotes,omitempty"`
	AgentEndpoint string                 `json:"agent_endpoint,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
)

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewSystemMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewErrorMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

func (m Message) IsError() bool {
	return m.Role == RoleError
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// HistoryEntry is the role/content pair the backend expects in
// conversation_history.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AsHistoryEntry converts the message for an outbound request.
func (m Message) AsHistoryEntry() HistoryEntry {
	return HistoryEntry{Role: m.Role, Content: m.Content}
}
