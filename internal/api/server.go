package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"chat-relay/internal/logger"
	"chat-relay/internal/relay"
)

// Runner is the upstream caller the server forwards validated requests to.
type Runner interface {
	Run(ctx context.Context, req relay.RunRequest) (map[string]any, error)
}

type Server struct {
	runner Runner
}

func NewServer(runner Runner) *Server {
	return &Server{runner: runner}
}

// HandleChat serves POST /api/chat: decode, validate and default the body,
// forward it upstream with the request context, and resolve the upstream's
// variable-shaped payload into one canonical text field. Every failure is
// turned into a structured JSON error here; nothing escapes the handler.
func (s *Server) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req relay.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A field of the wrong type is a validation failure; anything else
		// (truncated or malformed JSON) is a parse failure.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "Validation failed",
				"details": fmt.Sprintf("%s: Expected %s, received %s", typeErr.Field, wireTypeName(typeErr.Type), typeErr.Value),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, errorMessage(err))
		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("rejecting chat request", "details", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return
	}

	payload, err := s.runner.Run(r.Context(), req)
	if err != nil {
		slog.Error("chat turn failed", logger.Err(err), "session_id", req.SessionID)
		writeError(w, http.StatusInternalServerError, errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, relay.Reply{Text: relay.ResolveText(payload)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// wireTypeName names a decode target the way the wire contract does, not the
// way Go does.
func wireTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "An error occurred"
	}
	return err.Error()
}
