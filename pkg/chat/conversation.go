package chat

// Conversation is the ordered message list for one thread. ThreadID is empty
// until the backend assigns one via stream metadata.
type Conversation struct {
	Messages []Message
	ThreadID string
}

func NewConversation() Conversation {
	return Conversation{
		Messages: make([]Message, 0),
	}
}

func AddMessage(conv Conversation, msg Message) Conversation {
	messages := make([]Message, len(conv.Messages)+1)
	copy(messages, conv.Messages)
	messages[len(conv.Messages)] = msg

	return Conversation{
		Messages: messages,
		ThreadID: conv.ThreadID,
	}
}

func WithThreadID(conv Conversation, threadID string) Conversation {
	conv.ThreadID = threadID
	return conv
}

func GetMessages(conv Conversation) []Message {
	result := make([]Message, len(conv.Messages))
	copy(result, conv.Messages)
	return result
}

func GetMessageCount(conv Conversation) int {
	return len(conv.Messages)
}

func GetLastMessage(conv Conversation) (Message, bool) {
	if len(conv.Messages) == 0 {
		return Message{}, false
	}
	return conv.Messages[len(conv.Messages)-1], true
}

func GetLastAssistantMessage(conv Conversation) (Message, bool) {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].IsAssistant() {
			return conv.Messages[i], true
		}
	}
	return Message{}, false
}

func GetLastUserMessage(conv Conversation) (Message, bool) {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].IsUser() {
			return conv.Messages[i], true
		}
	}
	return Message{}, false
}

// HistoryEntries converts the conversation for an outbound request. Error
// messages are local artifacts and are not replayed to the backend.
func HistoryEntries(conv Conversation) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.IsError() {
			continue
		}
		entries = append(entries, msg.AsHistoryEntry())
	}
	return entries
}
