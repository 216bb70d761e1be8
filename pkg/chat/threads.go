package chat

// Thread summarizes one server-side conversation for history browsing. Field
// names match the backend's thread listing payload.
type Thread struct {
	ID               string `json:"thread_id"`
	CreatedAt        string `json:"thread_created_at"`
	UpdatedAt        string `json:"thread_updated_at"`
	LastMessage      string `json:"last_message"`
	LastMessageTime  string `json:"last_message_time"`
	LastMessageRole  string `json:"last_message_role"`
	AgentEndpoint    string `json:"agent_endpoint"`
	FirstUserMessage string `json:"first_user_message"`
}

// Title returns the text shown for the thread in a listing: the opening user
// message, falling back to the last message for threads without one.
func (t Thread) Title() string {
	if t.FirstUserMessage != "" {
		return t.FirstUserMessage
	}
	return t.LastMessage
}

// ThreadMessage is one persisted message fetched from a thread.
type ThreadMessage struct {
	MessageID     string `json:"message_id"`
	UserID        string `json:"user_id"`
	Role          string `json:"message_role"`
	Content       string `json:"message_content"`
	AgentEndpoint string `json:"agent_endpoint"`
	CreatedAt     string `json:"created_at"`
	Feedback      string `json:"feedback"`
}

// AsMessage converts a persisted thread message into a local Message.
func (tm ThreadMessage) AsMessage() Message {
	msg := NewAssistantMessage(tm.Content)
	msg.Role = tm.Role
	msg.ServerID = tm.MessageID
	msg.AgentEndpoint = tm.AgentEndpoint
	return msg
}
