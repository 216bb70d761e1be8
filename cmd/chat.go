package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brickchat/brickchat/pkg/chat"
	"github.com/brickchat/brickchat/pkg/client"
	"github.com/brickchat/brickchat/pkg/config"
	"github.com/brickchat/brickchat/pkg/logger"
	"github.com/brickchat/brickchat/pkg/render"
	"github.com/brickchat/brickchat/pkg/settings"
	"github.com/brickchat/brickchat/pkg/stream"
	"github.com/brickchat/brickchat/pkg/tts"
	"github.com/spf13/viper"
)

// runChat sends one prompt and renders the reply, streamed or whole
// depending on settings.
func runChat(ctx context.Context, prompt string) error {
	cfg := config.Get()
	store := newSettingsStore()
	snap := store.Get()

	manager, err := chat.NewManager(config.BuildSettingsPath(cfg.Chat.HistoryFile))
	if err != nil {
		return fmt.Errorf("failed to create chat manager: %w", err)
	}

	api := client.NewClientWithTimeout(cfg.Backend.URL, cfg.Backend.Timeout)
	renderer := render.New(os.Stdout)

	if threadID := viper.GetString("thread"); threadID != "" {
		msgs, err := api.ThreadMessages(ctx, threadID)
		if err != nil {
			return fmt.Errorf("failed to load thread: %w", err)
		}
		manager.LoadThread(threadID, msgs)
		logger.Info("Continuing thread %s with %d messages", threadID, len(msgs))
	}

	// History goes out as it stood before this prompt; the backend appends
	// the new message itself.
	history := chat.HistoryEntries(manager.Conversation())

	userMsg, err := manager.AddUserMessage(prompt)
	if err != nil {
		return err
	}
	renderer.Message(userMsg)

	req := client.SendRequest{
		Message:             userMsg.Content,
		ConversationHistory: history,
		ThreadID:            manager.ThreadID(),
		UserID:              snap.UserID,
	}

	if snap.StreamResults {
		return streamReply(ctx, api, manager, renderer, store, req)
	}
	return wholeReply(ctx, api, manager, renderer, store, req)
}

// streamReply renders the assistant message delta by delta as it assembles.
func streamReply(ctx context.Context, api *client.Client, manager *chat.Manager, renderer *render.Renderer, store *settings.Store, req client.SendRequest) error {
	renderer.Prompt(chat.RoleAssistant)

	var finalErr error
	handler := stream.HandlerFunc{
		MetadataFunc: func(m stream.Metadata) {
			manager.SetThreadID(m.ThreadID)
		},
		RoutingFunc: func(r stream.Routing) {
			logger.Info("Routed to agent %s: %s", r.Decision.Agent.Name, r.Decision.Reason)
		},
		DeltaFunc: func(delta string, _ stream.AssembledMessage) error {
			renderer.Delta(delta)
			return nil
		},
		ErrorFunc: func(err error) {
			finalErr = err
		},
		CompleteFunc: func(final stream.AssembledMessage) error {
			renderer.Newline()
			msg, err := manager.AppendAssembled(final)
			if err != nil {
				return err
			}
			renderer.Footnotes(msg.Footnotes)
			finalizeSpeech(ctx, store, msg)
			return nil
		},
	}

	if _, err := api.StreamSend(ctx, req, handler); err != nil {
		renderer.Newline()
		renderer.Error(err)
		return err
	}
	if finalErr != nil {
		logger.Error("Backend reported stream error: %v", finalErr)
	}
	return nil
}

// wholeReply waits for the complete assistant message.
func wholeReply(ctx context.Context, api *client.Client, manager *chat.Manager, renderer *render.Renderer, store *settings.Store, req client.SendRequest) error {
	resp, err := api.Send(ctx, req)
	if err != nil {
		if _, addErr := manager.AddErrorMessage(err.Error()); addErr != nil {
			logger.Error("Failed to record error message: %v", addErr)
		}
		renderer.Error(err)
		return err
	}

	manager.SetThreadID(resp.ThreadID)

	assembled := stream.AssembledMessage{
		Text:      resp.Response,
		Footnotes: resp.Footnotes,
		ThreadID:  resp.ThreadID,
		MessageID: resp.AssistantMessageID,
	}
	stored, err := manager.AppendAssembled(assembled)
	if err != nil {
		return err
	}

	renderer.Message(stored)
	finalizeSpeech(ctx, store, stored)
	return nil
}

// finalizeSpeech plays a finalized assistant message when eager mode is on.
func finalizeSpeech(ctx context.Context, store *settings.Store, msg chat.Message) {
	snap := store.Get()
	if !snap.EagerMode || msg.IsEmpty() {
		return
	}

	cfg := config.Get()
	speech := tts.NewClient(cfg.Backend.URL)
	if _, err := tts.Speak(ctx, speech, player(), msg.Content, snap.Voice); err != nil {
		logger.Error("Eager playback failed: %v", err)
	}
}

// player returns the host audio capability. Only the no-op player exists
// here; a real device binding slots in behind the same interface.
func player() tts.Player {
	return tts.NewNopPlayer()
}
