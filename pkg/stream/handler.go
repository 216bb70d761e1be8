package stream

import "github.com/brickchat/brickchat/pkg/footnotes"

// Handler receives every observable state transition of an assembling
// message. Implementations drive whatever presentation layer sits on top;
// the assembler itself never touches UI state.
type Handler interface {
	// OnMetadata is called when correlation ids arrive.
	OnMetadata(m Metadata)

	// OnRouting is called when the backend reports its agent selection.
	OnRouting(r Routing)

	// OnDelta is called after each content delta is appended, with the delta
	// and a snapshot of the message so far. Returning an error aborts the
	// stream.
	OnDelta(delta string, msg AssembledMessage) error

	// OnFootnotes is called after a footnote batch is appended.
	OnFootnotes(batch []footnotes.Definition, msg AssembledMessage) error

	// OnError is called for a server-reported error frame, after its text has
	// been appended to the message.
	OnError(err error)

	// OnComplete is called exactly once when the message is finalized.
	// Returning an error surfaces from the consume loop.
	OnComplete(final AssembledMessage) error
}

// HandlerFunc is a function adapter for Handler. Nil fields are no-ops.
type HandlerFunc struct {
	MetadataFunc  func(m Metadata)
	RoutingFunc   func(r Routing)
	DeltaFunc     func(delta string, msg AssembledMessage) error
	FootnotesFunc func(batch []footnotes.Definition, msg AssembledMessage) error
	ErrorFunc     func(err error)
	CompleteFunc  func(final AssembledMessage) error
}

// OnMetadata implements Handler.
func (h HandlerFunc) OnMetadata(m Metadata) {
	if h.MetadataFunc != nil {
		h.MetadataFunc(m)
	}
}

// OnRouting implements Handler.
func (h HandlerFunc) OnRouting(r Routing) {
	if h.RoutingFunc != nil {
		h.RoutingFunc(r)
	}
}

// OnDelta implements Handler.
func (h HandlerFunc) OnDelta(delta string, msg AssembledMessage) error {
	if h.DeltaFunc != nil {
		return h.DeltaFunc(delta, msg)
	}
	return nil
}

// OnFootnotes implements Handler.
func (h HandlerFunc) OnFootnotes(batch []footnotes.Definition, msg AssembledMessage) error {
	if h.FootnotesFunc != nil {
		return h.FootnotesFunc(batch, msg)
	}
	return nil
}

// OnError implements Handler.
func (h HandlerFunc) OnError(err error) {
	if h.ErrorFunc != nil {
		h.ErrorFunc(err)
	}
}

// OnComplete implements Handler.
func (h HandlerFunc) OnComplete(final AssembledMessage) error {
	if h.CompleteFunc != nil {
		return h.CompleteFunc(final)
	}
	return nil
}

var _ Handler = HandlerFunc{}
