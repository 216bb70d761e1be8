package client_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/brickchat/brickchat/pkg/client"
	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/brickchat/brickchat/pkg/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// sseServer serves the given frames as data: lines, flushing after each so the
// client sees them as separate chunks.
func sseServer(frames ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer GinkgoRecover()

		var req client.SendRequest
		Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
		Expect(req.Stream).To(BeTrue())

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		Expect(ok).To(BeTrue())
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n", frame)
			flusher.Flush()
		}
	}))
}

var _ = Describe("StreamSend", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("should assemble a complete streamed reply", func() {
		server = sseServer(
			`{"metadata":{"thread_id":"T1","user_message_id":"U1","user_id":"dev_user"}}`,
			`{"routing":{"agent":{"agent_id":"brick","name":"Brick","endpoint_url":"/brick"},"reason":"best match"}}`,
			`{"content":"Bricks "}`,
			`{"content":"stack."}`,
			`{"footnotes":[{"id":"7","content":"Masonry 101"}]}`,
			`{"done":true,"thread_id":"T1","assistant_message_id":"M1"}`,
		)
		api := client.NewClient(server.URL)

		var (
			deltas  []string
			routed  stream.Routing
			final   stream.AssembledMessage
			gotDone bool
		)
		handler := stream.HandlerFunc{
			RoutingFunc: func(r stream.Routing) { routed = r },
			DeltaFunc: func(delta string, msg stream.AssembledMessage) error {
				deltas = append(deltas, delta)
				return nil
			},
			CompleteFunc: func(msg stream.AssembledMessage) error {
				final = msg
				gotDone = true
				return nil
			},
		}

		asm, err := api.StreamSend(ctx(), client.SendRequest{Message: "how?", UserID: "dev_user"}, handler)

		Expect(err).ToNot(HaveOccurred())
		Expect(asm).ToNot(BeNil())
		Expect(deltas).To(Equal([]string{"Bricks ", "stack."}))
		Expect(routed.Decision.Agent.Name).To(Equal("Brick"))
		Expect(gotDone).To(BeTrue())
		Expect(final.Text).To(Equal("Bricks stack."))
		Expect(final.ThreadID).To(Equal("T1"))
		Expect(final.MessageID).To(Equal("M1"))
		Expect(final.IsStreaming).To(BeFalse())
		Expect(final.CompletedImplicitly).To(BeFalse())
		Expect(final.Footnotes).To(Equal([]footnotes.Definition{{ID: "7", Content: "Masonry 101"}}))
	})

	It("should flag implicit completion when the stream ends without done", func() {
		server = sseServer(
			`{"content":"half a rep"}`,
		)
		api := client.NewClient(server.URL)

		asm, err := api.StreamSend(ctx(), client.SendRequest{Message: "how?", UserID: "u"}, nil)

		Expect(err).ToNot(HaveOccurred())
		final := asm.Message()
		Expect(final.Text).To(Equal("half a rep"))
		Expect(final.IsStreaming).To(BeFalse())
		Expect(final.CompletedImplicitly).To(BeTrue())
	})

	It("should append a server error frame and stop folding", func() {
		server = sseServer(
			`{"content":"partial"}`,
			`{"error":"agent unavailable"}`,
			`{"content":"never seen"}`,
		)
		api := client.NewClient(server.URL)

		var streamErr error
		handler := stream.HandlerFunc{
			ErrorFunc: func(err error) { streamErr = err },
		}

		asm, err := api.StreamSend(ctx(), client.SendRequest{Message: "how?", UserID: "u"}, handler)

		Expect(err).ToNot(HaveOccurred())
		Expect(streamErr).To(MatchError(ContainSubstring("agent unavailable")))
		final := asm.Message()
		Expect(final.Text).To(Equal("partialError: agent unavailable"))
		Expect(final.IsStreaming).To(BeFalse())
	})

	It("should report a non-200 status without creating an assembler", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "backend down"})
		}))
		api := client.NewClient(server.URL)

		var reported error
		handler := stream.HandlerFunc{
			ErrorFunc: func(err error) { reported = err },
		}

		asm, err := api.StreamSend(ctx(), client.SendRequest{Message: "how?", UserID: "u"}, handler)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("backend down"))
		Expect(reported).To(Equal(err))
		Expect(asm).To(BeNil())
	})
})
