package relay

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NoTextSentinel is returned when no known shape yields any text. Shape drift
// degrades to this sentinel instead of an error so the turn still completes.
const NoTextSentinel = "No response text found"

// An extractor attempts to pull the text value out of one known upstream
// response shape. The second return reports whether the path resolved at all.
type extractor func(node map[string]any) (any, bool)

// The upstream execution graph can be rewired (different output nodes) without
// a wire contract bump, so text lives at different depths depending on which
// graph is deployed. Extractors run in priority order, first non-empty value
// wins.
var (
	outputExtractors = []extractor{
		atPath("outputs", 0, "results", "message", "data", "text"),
		atPath("outputs", 0, "text"),
		atPath("text"),
	}

	topLevelExtractors = []extractor{
		atPath("text"),
		atPath("message"),
	}
)

// ResolveText resolves an upstream response of any known shape into the single
// canonical text string. Pure and deterministic: no I/O, same payload in, same
// text out.
func ResolveText(payload map[string]any) string {
	var value any
	if outs, ok := payload["outputs"].([]any); ok && len(outs) > 0 {
		if first, ok := outs[0].(map[string]any); ok {
			value = firstNonEmpty(first, outputExtractors)
		}
	} else {
		value = firstNonEmpty(payload, topLevelExtractors)
	}

	text := coerceText(value)
	if text == "" {
		return NoTextSentinel
	}
	return text
}

func firstNonEmpty(node map[string]any, seq []extractor) any {
	for _, extract := range seq {
		v, ok := extract(node)
		if !ok {
			continue
		}
		// Falsy values fall through to the next extractor, like the JS-style
		// chains some upstream graphs were written against.
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case []any:
			if len(t) == 0 {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		case json.Number:
			if f, err := t.Float64(); err == nil && f == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		case nil:
			continue
		}
		return v
	}
	return nil
}

// atPath builds an extractor walking a fixed path of object keys (string
// steps) and list indices (int steps).
func atPath(path ...any) extractor {
	return func(node map[string]any) (any, bool) {
		var cur any = node
		for _, step := range path {
			switch key := step.(type) {
			case string:
				obj, ok := cur.(map[string]any)
				if !ok {
					return nil, false
				}
				cur, ok = obj[key]
				if !ok {
					return nil, false
				}
			case int:
				list, ok := cur.([]any)
				if !ok || key >= len(list) {
					return nil, false
				}
				cur = list[key]
			}
		}
		return cur, true
	}
}

// coerceText renders the extracted value as a string. Some upstream variants
// return multi-segment text as an array; those join with newlines.
func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringVal(item))
		}
		return strings.Join(parts, "\n")
	default:
		return stringVal(v)
	}
}

func stringVal(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
