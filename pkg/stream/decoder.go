package stream

import (
	"bytes"
	"encoding/json"

	"github.com/brickchat/brickchat/pkg/agents"
	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/brickchat/brickchat/pkg/logger"
)

// framePrefix marks lines that carry a JSON frame, per the server-sent-events
// convention the backend follows.
const framePrefix = "data:"

// FrameDecoder turns raw body chunks into typed events. Chunk boundaries do
// not align with line boundaries, so the decoder buffers a partial trailing
// line until the rest of it arrives. Lines without the frame prefix and lines
// whose payload is not valid JSON are dropped; decoding is best effort and
// never fails.
type FrameDecoder struct {
	partial []byte
}

// NewFrameDecoder creates an empty decoder.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// Feed appends a chunk to the decoder and returns all events completed by it,
// in wire order.
func (d *FrameDecoder) Feed(chunk []byte) []Event {
	d.partial = append(d.partial, chunk...)

	var events []Event
	for {
		nl := bytes.IndexByte(d.partial, '\n')
		if nl < 0 {
			return events
		}
		line := d.partial[:nl]
		d.partial = d.partial[nl+1:]
		if ev, ok := decodeLine(line); ok {
			events = append(events, ev)
		}
	}
}

// Flush decodes whatever is left in the buffer as a final line. Call it once
// when the source is exhausted; streams that end without a trailing newline
// would otherwise lose their last frame.
func (d *FrameDecoder) Flush() []Event {
	if len(d.partial) == 0 {
		return nil
	}
	line := d.partial
	d.partial = nil
	if ev, ok := decodeLine(line); ok {
		return []Event{ev}
	}
	return nil
}

// frame is the JSON probe for one line. Pointer and slice fields distinguish
// a key that is absent from one that is present, which drives classification.
type frame struct {
	Error              *string                 `json:"error"`
	Done               *bool                   `json:"done"`
	Routing            *agents.RoutingDecision `json:"routing"`
	Metadata           *Metadata               `json:"metadata"`
	Footnotes          []footnotes.Definition  `json:"footnotes"`
	Content            *string                 `json:"content"`
	ThreadID           string                  `json:"thread_id"`
	AssistantMessageID string                  `json:"assistant_message_id"`
}

// decodeLine parses one line into an event. Classification checks keys in
// precedence order: error, done, routing/metadata, footnotes, content. The
// first present key wins; a line matching none produces no event.
func decodeLine(line []byte) (Event, bool) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if !bytes.HasPrefix(line, []byte(framePrefix)) {
		return nil, false
	}
	payload := bytes.TrimSpace(line[len(framePrefix):])
	if len(payload) == 0 {
		return nil, false
	}

	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		logger.Debug("Skipping malformed frame: %v", err)
		return nil, false
	}

	switch {
	case f.Error != nil:
		return Error{Message: *f.Error}, true
	case f.Done != nil:
		return Done{ThreadID: f.ThreadID, AssistantMessageID: f.AssistantMessageID}, true
	case f.Routing != nil:
		return Routing{Decision: *f.Routing}, true
	case f.Metadata != nil:
		return *f.Metadata, true
	case f.AssistantMessageID != "":
		// The backend sends the assistant message id as a bare frame just
		// before done.
		return Metadata{AssistantMessageID: f.AssistantMessageID}, true
	case f.Footnotes != nil:
		defs := make([]footnotes.Definition, len(f.Footnotes))
		for i, def := range f.Footnotes {
			defs[i] = footnotes.Definition{
				ID:      footnotes.DisplayNumber(def.ID),
				Content: def.Content,
			}
		}
		return FootnoteBatch{Footnotes: defs}, true
	case f.Content != nil:
		return ContentDelta{Text: *f.Content}, true
	}
	return nil, false
}
