package relay

import (
	"encoding/json"
	"testing"
)

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("invalid test payload: %v", err)
	}
	return payload
}

func TestResolveTextKnownShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "nested results message",
			payload: `{"outputs":[{"outputs":[{"results":{"message":{"data":{"text":"deep"}}}}]}]}`,
			want:    "deep",
		},
		{
			name:    "inner output text",
			payload: `{"outputs":[{"outputs":[{"text":"from nested"}]}]}`,
			want:    "from nested",
		},
		{
			name:    "outer output text",
			payload: `{"outputs":[{"text":"outer"}]}`,
			want:    "outer",
		},
		{
			name:    "top level text",
			payload: `{"text":"plain"}`,
			want:    "plain",
		},
		{
			name:    "top level message",
			payload: `{"message":"fallback"}`,
			want:    "fallback",
		},
		{
			name:    "nested shape wins over outer",
			payload: `{"outputs":[{"outputs":[{"results":{"message":{"data":{"text":"deep"}}},"text":"shallow"}]},{"text":"second"}]}`,
			want:    "deep",
		},
		{
			name:    "text wins over message",
			payload: `{"text":"primary","message":"secondary"}`,
			want:    "primary",
		},
		{
			name:    "empty nested text falls through",
			payload: `{"outputs":[{"outputs":[{"text":""}],"text":"outer"}]}`,
			want:    "outer",
		},
		{
			name:    "zero number falls through",
			payload: `{"outputs":[{"outputs":[{"text":0}],"text":"outer"}]}`,
			want:    "outer",
		},
		{
			name:    "false falls through",
			payload: `{"text":false,"message":"second choice"}`,
			want:    "second choice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveText(decodePayload(t, tt.payload))
			if got != tt.want {
				t.Fatalf("ResolveText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTextJoinsArrays(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "top level array",
			payload: `{"text":["line one","line two"]}`,
			want:    "line one\nline two",
		},
		{
			name:    "nested array",
			payload: `{"outputs":[{"outputs":[{"text":["a","b","c"]}]}]}`,
			want:    "a\nb\nc",
		},
		{
			name:    "single element array",
			payload: `{"message":["only"]}`,
			want:    "only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveText(decodePayload(t, tt.payload))
			if got != tt.want {
				t.Fatalf("ResolveText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTextSentinel(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty object", payload: `{}`},
		{name: "unknown fields", payload: `{"status":"ok","code":7}`},
		{name: "shapeless output entry", payload: `{"outputs":[{"id":"node-1"}]}`},
		{name: "empty text", payload: `{"text":""}`},
		{name: "empty array text", payload: `{"text":[]}`},
		{name: "zero text", payload: `{"text":0}`},
		{name: "false text", payload: `{"message":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveText(decodePayload(t, tt.payload)); got != NoTextSentinel {
				t.Fatalf("ResolveText = %q, want sentinel %q", got, NoTextSentinel)
			}
		})
	}
}

// Non-empty outputs pin resolution to the first entry: top-level fallbacks are
// only consulted when outputs is absent or empty.
func TestResolveTextOutputsPresencePinsBranch(t *testing.T) {
	payload := decodePayload(t, `{"outputs":[{"id":"node-1"}],"text":"should not be used"}`)
	if got := ResolveText(payload); got != NoTextSentinel {
		t.Fatalf("ResolveText = %q, want sentinel %q", got, NoTextSentinel)
	}

	payload = decodePayload(t, `{"outputs":[],"text":"still here"}`)
	if got := ResolveText(payload); got != "still here" {
		t.Fatalf("ResolveText = %q, want %q", got, "still here")
	}
}

func TestResolveTextDeterministic(t *testing.T) {
	payload := decodePayload(t, `{"outputs":[{"outputs":[{"text":["x","y"]}]}]}`)
	first := ResolveText(payload)
	for i := 0; i < 3; i++ {
		if got := ResolveText(payload); got != first {
			t.Fatalf("run %d: ResolveText = %q, want %q", i, got, first)
		}
	}
}
