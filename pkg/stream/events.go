package stream

import (
	"github.com/brickchat/brickchat/pkg/agents"
	"github.com/brickchat/brickchat/pkg/footnotes"
)

// Event is a sealed interface over the frame types the backend pushes on a
// chat stream. The unexported marker method keeps the set closed.
type Event interface {
	event()
}

// Metadata carries the correlation ids the backend sends before any content.
type Metadata struct {
	ThreadID           string `json:"thread_id"`
	UserMessageID      string `json:"user_message_id"`
	AssistantMessageID string `json:"assistant_message_id"`
	UserID             string `json:"user_id"`
	AgentEndpoint      string `json:"agent_endpoint"`
}

func (Metadata) event() {}

// Routing reports the autonomous-agent selection made for this message.
type Routing struct {
	Decision agents.RoutingDecision
}

func (Routing) event() {}

// ContentDelta is one incremental piece of assistant text.
type ContentDelta struct {
	Text string
}

func (ContentDelta) event() {}

// FootnoteBatch carries footnotes extracted server-side from the response.
type FootnoteBatch struct {
	Footnotes []footnotes.Definition
}

func (FootnoteBatch) event() {}

// Done terminates the stream normally.
type Done struct {
	ThreadID           string `json:"thread_id"`
	AssistantMessageID string `json:"assistant_message_id"`
}

func (Done) event() {}

// Error terminates the stream with a server-reported failure.
type Error struct {
	Message string
}

func (Error) event() {}

// Interface compliance checks.
var (
	_ Event = Metadata{}
	_ Event = Routing{}
	_ Event = ContentDelta{}
	_ Event = FootnoteBatch{}
	_ Event = Done{}
	_ Event = Error{}
)
