package stream

import (
	"errors"
	"testing"

	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures every notification for assertions.
type recordingHandler struct {
	deltas      []string
	batches     int
	metadata    []Metadata
	errs        []error
	completes   []AssembledMessage
	deltaErr    error
	completeErr error
}

func (h *recordingHandler) OnMetadata(m Metadata) { h.metadata = append(h.metadata, m) }
func (h *recordingHandler) OnRouting(Routing)     {}
func (h *recordingHandler) OnDelta(delta string, _ AssembledMessage) error {
	h.deltas = append(h.deltas, delta)
	return h.deltaErr
}
func (h *recordingHandler) OnFootnotes([]footnotes.Definition, AssembledMessage) error {
	h.batches++
	return nil
}
func (h *recordingHandler) OnError(err error) { h.errs = append(h.errs, err) }
func (h *recordingHandler) OnComplete(final AssembledMessage) error {
	h.completes = append(h.completes, final)
	return h.completeErr
}

func TestAssembler(t *testing.T) {
	t.Run("should concatenate deltas in arrival order", func(t *testing.T) {
		asm := NewAssembler(nil)

		parts := []string{"a", "b", "", "c d", "e"}
		for _, p := range parts {
			assert.True(t, asm.Fold(ContentDelta{Text: p}))
		}

		assert.Equal(t, "abc de", asm.Message().Text)
		assert.True(t, asm.Message().IsStreaming)
	})

	t.Run("should notify after every delta without batching", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		asm.Fold(ContentDelta{Text: "Hi "})
		asm.Fold(ContentDelta{Text: "there"})

		assert.Equal(t, []string{"Hi ", "there"}, h.deltas)
	})

	t.Run("should finalize on done with ids", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		assert.True(t, asm.Fold(ContentDelta{Text: "Hi "}))
		assert.True(t, asm.Fold(ContentDelta{Text: "there"}))
		assert.False(t, asm.Fold(Done{ThreadID: "T1", AssistantMessageID: "M1"}))

		msg := asm.Message()
		assert.Equal(t, "Hi there", msg.Text)
		assert.False(t, msg.IsStreaming)
		assert.Equal(t, "T1", msg.ThreadID)
		assert.Equal(t, "M1", msg.MessageID)
		assert.False(t, msg.CompletedImplicitly)
		require.Len(t, h.completes, 1)
	})

	t.Run("should append error text and stop on an error frame", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		assert.False(t, asm.Fold(Error{Message: "backend down"}))

		msg := asm.Message()
		assert.Equal(t, "Error: backend down", msg.Text)
		assert.False(t, msg.IsStreaming)
		require.Len(t, h.errs, 1)
		assert.EqualError(t, h.errs[0], "backend down")

		// Frames after the terminal event fold to nothing
		assert.False(t, asm.Fold(ContentDelta{Text: "late"}))
		assert.Equal(t, "Error: backend down", asm.Message().Text)
	})

	t.Run("should not mutate after cancel", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		asm.Fold(ContentDelta{Text: "partial"})
		asm.Cancel()

		assert.False(t, asm.Fold(ContentDelta{Text: " late chunk"}))
		assert.False(t, asm.Fold(Done{}))
		asm.Finish()

		msg := asm.Message()
		assert.Equal(t, "partial", msg.Text)
		assert.True(t, msg.IsStreaming)
		assert.Empty(t, h.completes)
	})

	t.Run("should finalize implicitly on exhaustion", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		asm.Fold(ContentDelta{Text: "tail"})
		asm.Finish()
		asm.Finish() // second call is a no-op

		msg := asm.Message()
		assert.False(t, msg.IsStreaming)
		assert.True(t, msg.CompletedImplicitly)
		require.Len(t, h.completes, 1)
	})

	t.Run("should accumulate footnote batches in order", func(t *testing.T) {
		h := &recordingHandler{}
		asm := NewAssembler(h)

		asm.Fold(FootnoteBatch{Footnotes: []footnotes.Definition{{ID: "1", Content: "a"}}})
		asm.Fold(FootnoteBatch{Footnotes: []footnotes.Definition{{ID: "2", Content: "b"}, {ID: "1", Content: "a"}}})

		msg := asm.Message()
		require.Len(t, msg.Footnotes, 3)
		assert.Equal(t, "1", msg.Footnotes[0].ID)
		assert.Equal(t, "2", msg.Footnotes[1].ID)
		assert.Equal(t, 2, h.batches)
	})

	t.Run("should apply metadata and routing", func(t *testing.T) {
		asm := NewAssembler(nil)

		asm.Fold(Metadata{ThreadID: "T1", AgentEndpoint: "ep1"})
		asm.Fold(Metadata{AssistantMessageID: "M2"})

		msg := asm.Message()
		assert.Equal(t, "T1", msg.ThreadID)
		assert.Equal(t, "M2", msg.MessageID)
		assert.Equal(t, "ep1", msg.AgentEndpoint)
	})

	t.Run("should abort when a handler rejects a delta", func(t *testing.T) {
		h := &recordingHandler{deltaErr: errors.New("display gone")}
		asm := NewAssembler(h)

		assert.False(t, asm.Fold(ContentDelta{Text: "x"}))
		assert.True(t, asm.Cancelled())
		assert.Empty(t, h.completes)
		assert.EqualError(t, asm.Err(), "display gone")
	})

	t.Run("should record a complete hook failure", func(t *testing.T) {
		h := &recordingHandler{completeErr: errors.New("persist failed")}
		asm := NewAssembler(h)

		asm.Fold(ContentDelta{Text: "x"})
		assert.False(t, asm.Fold(Done{}))
		assert.EqualError(t, asm.Err(), "persist failed")
		require.Len(t, h.completes, 1)
	})

	t.Run("should return the complete hook failure from Finish", func(t *testing.T) {
		h := &recordingHandler{completeErr: errors.New("persist failed")}
		asm := NewAssembler(h)

		asm.Fold(ContentDelta{Text: "x"})
		assert.EqualError(t, asm.Finish(), "persist failed")
		assert.NoError(t, asm.Finish()) // finalized already, no-op
	})

	t.Run("should give each assembler a unique id", func(t *testing.T) {
		a := NewAssembler(nil)
		b := NewAssembler(nil)
		assert.NotEmpty(t, a.Message().ID)
		assert.NotEqual(t, a.Message().ID, b.Message().ID)
	})
}
