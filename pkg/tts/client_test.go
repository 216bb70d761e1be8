package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speakServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tts/speak-stream", r.URL.Path)

		var req speakRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Text)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n", frame)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func collect(t *testing.T, chunks <-chan AudioChunk) ([]byte, error) {
	t.Helper()
	var audio []byte
	for chunk := range chunks {
		if chunk.Err != nil {
			return audio, chunk.Err
		}
		audio = append(audio, chunk.Data...)
	}
	return audio, nil
}

func audioFrame(data string) string {
	return fmt.Sprintf(`{"type":"audio","chunk":%q}`, base64.StdEncoding.EncodeToString([]byte(data)))
}

func TestSpeakStreamDecodesAudio(t *testing.T) {
	server := speakServer(t,
		audioFrame("RIFF"),
		audioFrame("data"),
		`{"type":"done"}`,
	)

	client := NewClient(server.URL)
	chunks, err := client.SpeakStream(context.Background(), "hello", "aura-2-thalia-en")
	require.NoError(t, err)

	audio, err := collect(t, chunks)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFdata"), audio)
}

func TestSpeakStreamErrorFrame(t *testing.T) {
	server := speakServer(t,
		audioFrame("RIFF"),
		`{"type":"error","message":"voice not found"}`,
	)

	client := NewClient(server.URL)
	chunks, err := client.SpeakStream(context.Background(), "hello", "nope")
	require.NoError(t, err)

	audio, err := collect(t, chunks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice not found")
	assert.Equal(t, []byte("RIFF"), audio)
}

func TestSpeakStreamSkipsMalformedFrames(t *testing.T) {
	server := speakServer(t,
		`not even json`,
		`{"type":"audio","chunk":"!!not-base64!!"}`,
		audioFrame("ok"),
		`{"type":"done"}`,
	)

	client := NewClient(server.URL)
	chunks, err := client.SpeakStream(context.Background(), "hello", "")
	require.NoError(t, err)

	audio, err := collect(t, chunks)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), audio)
}

func TestSpeakStreamNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tts backend down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	_, err := client.SpeakStream(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSpeakPlaysCollectedAudio(t *testing.T) {
	server := speakServer(t,
		audioFrame("abc"),
		audioFrame("def"),
		`{"type":"done"}`,
	)

	client := NewClient(server.URL)
	player := NewNopPlayer()

	handle, err := Speak(context.Background(), client, player, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, Handle(1), handle)
	assert.Equal(t, 1, player.played)
}

func TestSpeakNoAudio(t *testing.T) {
	server := speakServer(t, `{"type":"done"}`)

	client := NewClient(server.URL)
	_, err := Speak(context.Background(), client, NewNopPlayer(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio")
}
