package stream

import (
	"context"
	"fmt"
	"io"
)

// readBufferSize is the chunk size used when draining a response body.
const readBufferSize = 4096

// Consume drains r chunk by chunk, decoding frames and folding them into the
// assembler until a terminal frame, source exhaustion, or context
// cancellation. The reader is not closed; that stays with the caller.
//
// Exhaustion without a terminal frame finalizes the message implicitly. A
// read error also finalizes implicitly, then surfaces to the caller; by then
// part of the message may already have been published. Cancellation wins over
// both: when ctx is done the message is abandoned, never finalized, even if
// the cancellation reached Consume as a failed or exhausted read.
func Consume(ctx context.Context, r io.Reader, a *Assembler) error {
	dec := NewFrameDecoder()
	buf := make([]byte, readBufferSize)

	for {
		select {
		case <-ctx.Done():
			a.Cancel()
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				if !a.Fold(ev) {
					return a.Err()
				}
			}
		}
		if err == io.EOF {
			if ctx.Err() != nil {
				a.Cancel()
				return ctx.Err()
			}
			for _, ev := range dec.Flush() {
				if !a.Fold(ev) {
					return a.Err()
				}
			}
			return a.Finish()
		}
		if err != nil {
			if ctx.Err() != nil {
				a.Cancel()
				return ctx.Err()
			}
			a.Finish()
			return fmt.Errorf("stream read failed: %w", err)
		}
	}
}
