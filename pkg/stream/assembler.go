package stream

import (
	"errors"
	"sync"

	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/google/uuid"
)

// AssembledMessage is the accumulator one stream folds into. Text and
// Footnotes only ever grow while IsStreaming is true; once IsStreaming flips
// to false it never flips back.
type AssembledMessage struct {
	ID                  string
	Text                string
	Footnotes           []footnotes.Definition
	IsStreaming         bool
	ThreadID            string
	MessageID           string
	AgentEndpoint       string
	CompletedImplicitly bool
}

// Assembler folds stream events into a single AssembledMessage and publishes
// each transition through a Handler. One assembler serves exactly one
// in-flight request; create a fresh one per request.
//
// Exactly one goroutine folds events at a time by construction, but Cancel
// can race a late chunk, so all state sits behind a mutex and a liveness
// check guards every fold. Handler callbacks run on the folding goroutine
// while the mutex is held; they receive snapshots and must not call back
// into the assembler.
type Assembler struct {
	mu        sync.Mutex
	msg       AssembledMessage
	handler   Handler
	cancelled bool
	finalized bool
	err       error
}

// NewAssembler creates an assembler with a fresh client-generated message id.
// A nil handler is replaced with a no-op.
func NewAssembler(handler Handler) *Assembler {
	if handler == nil {
		handler = HandlerFunc{}
	}
	return &Assembler{
		msg: AssembledMessage{
			ID:          uuid.NewString(),
			IsStreaming: true,
		},
		handler: handler,
	}
}

// Message returns a snapshot of the message as assembled so far. Footnotes
// are copied so callers cannot alias the accumulator.
func (a *Assembler) Message() AssembledMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *Assembler) snapshot() AssembledMessage {
	msg := a.msg
	msg.Footnotes = make([]footnotes.Definition, len(a.msg.Footnotes))
	copy(msg.Footnotes, a.msg.Footnotes)
	return msg
}

// Cancelled reports whether Cancel has been called.
func (a *Assembler) Cancelled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled
}

// Finalized reports whether the message has reached its terminal state.
func (a *Assembler) Finalized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finalized
}

// Err returns the first error a handler returned while folding, or nil. A
// non-nil value means the handler aborted the stream (OnDelta/OnFootnotes) or
// rejected the finalized message (OnComplete).
func (a *Assembler) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Cancel abandons the in-flight message. Late-arriving events fold to
// nothing afterwards; the handler sees no further calls, including
// OnComplete.
func (a *Assembler) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelled = true
}

// Fold applies one event to the message and notifies the handler. It returns
// false once the stream should stop: after a terminal event, after
// cancellation, or when a handler rejects a transition.
func (a *Assembler) Fold(ev Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancelled || a.finalized {
		return false
	}

	switch ev := ev.(type) {
	case Metadata:
		a.applyMetadata(ev)
		a.handler.OnMetadata(ev)
		return true

	case Routing:
		if ev.Decision.Agent.EndpointURL != "" {
			a.msg.AgentEndpoint = ev.Decision.Agent.EndpointURL
		}
		a.handler.OnRouting(ev)
		return true

	case ContentDelta:
		a.msg.Text += ev.Text
		if err := a.handler.OnDelta(ev.Text, a.snapshot()); err != nil {
			a.cancelled = true
			a.err = err
			return false
		}
		return true

	case FootnoteBatch:
		a.msg.Footnotes = append(a.msg.Footnotes, ev.Footnotes...)
		if err := a.handler.OnFootnotes(ev.Footnotes, a.snapshot()); err != nil {
			a.cancelled = true
			a.err = err
			return false
		}
		return true

	case Error:
		a.msg.Text += "Error: " + ev.Message
		a.handler.OnError(errors.New(ev.Message))
		a.finalize(false)
		return false

	case Done:
		if ev.ThreadID != "" {
			a.msg.ThreadID = ev.ThreadID
		}
		if ev.AssistantMessageID != "" {
			a.msg.MessageID = ev.AssistantMessageID
		}
		a.finalize(false)
		return false
	}
	return true
}

func (a *Assembler) applyMetadata(m Metadata) {
	if m.ThreadID != "" {
		a.msg.ThreadID = m.ThreadID
	}
	if m.AssistantMessageID != "" {
		a.msg.MessageID = m.AssistantMessageID
	}
	if m.AgentEndpoint != "" {
		a.msg.AgentEndpoint = m.AgentEndpoint
	}
}

// Finish marks the message complete when the source is exhausted without a
// terminal frame. The backend treats silent closure as success; the
// CompletedImplicitly flag records that no explicit done frame was seen so
// callers can surface it. The returned error is whatever OnComplete returned.
// Calling Finish after a terminal event or after Cancel is a no-op.
func (a *Assembler) Finish() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancelled || a.finalized {
		return nil
	}
	a.finalize(true)
	return a.err
}

// finalize flips the streaming flag and fires OnComplete exactly once. An
// OnComplete error is recorded for Err. Callers hold the mutex.
func (a *Assembler) finalize(implicit bool) {
	a.finalized = true
	a.msg.IsStreaming = false
	a.msg.CompletedImplicitly = implicit
	if err := a.handler.OnComplete(a.snapshot()); err != nil {
		a.err = err
	}
}
