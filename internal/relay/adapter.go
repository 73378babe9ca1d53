package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ChatAdapter bridges a chat UI's multi-turn message history and the relay's
// single-turn request cycle. It owns a session id that stays stable for the
// adapter's lifetime so the upstream can correlate turns; nothing is persisted
// across restarts.
type ChatAdapter struct {
	http      *http.Client
	url       string
	sessionID string
}

func NewChatAdapter(relayURL string) *ChatAdapter {
	return &ChatAdapter{
		http:      &http.Client{},
		url:       strings.TrimRight(relayURL, "/") + "/api/chat",
		sessionID: uuid.NewString(),
	}
}

// SessionID returns the adapter's stable per-session identifier.
func (a *ChatAdapter) SessionID() string {
	return a.sessionID
}

// Run sends the last turn's text to the relay and delivers the reply as
// exactly one content chunk through onChunk before returning. Only text parts
// of the last turn are consumed; other part kinds are ignored. Cancelling ctx
// aborts the in-flight network call.
//
// Relay error payloads are not surfaced to the UI: the chunk degrades to empty
// text and the error is logged, keeping the UI contract to "got text or got
// nothing".
func (a *ChatAdapter) Run(ctx context.Context, turns []ChatTurn, onChunk func(Chunk) error) error {
	if len(turns) == 0 {
		return errors.New("no turns to send")
	}

	body, err := json.Marshal(RunRequest{
		InputValue: lastTurnText(turns),
		SessionID:  a.sessionID,
		OutputType: ChatType,
		InputType:  ChatType,
	})
	if err != nil {
		return fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reply struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decoding relay response: %w", err)
	}
	if reply.Text == "" && reply.Error != "" {
		slog.Warn("relay reported an error, degrading to empty reply",
			"error", reply.Error, "session_id", a.sessionID)
	}

	return onChunk(Chunk{Content: []ContentPart{{Type: "text", Text: reply.Text}}})
}

func lastTurnText(turns []ChatTurn) string {
	last := turns[len(turns)-1]
	parts := make([]string, 0, len(last.Content))
	for _, part := range last.Content {
		if part.Type != "text" {
			continue
		}
		parts = append(parts, part.Text)
	}
	return strings.Join(parts, "\n")
}
