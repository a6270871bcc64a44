// Package content parses trace and observation payloads for display.  Agent
// payload shapes vary and are not versioned, so everything here is
// best-effort: a payload that does not match a known shape falls back to the
// raw string or the whole parsed object, never to an error.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rendered is a display-ready payload: either extracted text or a JSON value
// the client should pretty-print.
type Rendered struct {
	Text   string      `json:"text,omitempty"`
	JSON   interface{} `json:"json,omitempty"`
	IsJSON bool        `json:"isJson"`
}

// decode unwraps raw into a JSON value.  Payloads are often stored as
// JSON-encoded strings which themselves contain JSON, so a string result is
// parsed once more if possible.
func decode(raw json.RawMessage) (interface{}, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}

	if s, ok := value.(string); ok {
		var inner interface{}
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner, true
		}
		return s, true
	}

	return value, true
}

// RenderInput extracts the user's query from a trace input.  A payload
// carrying a user_query field renders as that text; any other object renders
// as JSON; an unparseable payload renders as the raw string.
func RenderInput(raw json.RawMessage) Rendered {
	value, ok := decode(raw)
	if !ok {
		return Rendered{Text: strings.Trim(string(raw), `"`)}
	}

	if m, ok := value.(map[string]interface{}); ok {
		if q, ok := m["user_query"].(string); ok && q != "" {
			return Rendered{Text: q}
		}
		return Rendered{JSON: m, IsJSON: true}
	}

	if s, ok := value.(string); ok {
		return Rendered{Text: s}
	}

	return Rendered{JSON: value, IsJSON: true}
}

// RenderOutput extracts the final response text from a trace output.  The
// preferred shape is outcome.output.text with {placeholder} substitution from
// outcome.output.replacements; then outcome.output itself; then the whole
// parsed object as JSON; then the raw string.
func RenderOutput(raw json.RawMessage) Rendered {
	value, ok := decode(raw)
	if !ok {
		return Rendered{Text: strings.Trim(string(raw), `"`)}
	}

	m, ok := value.(map[string]interface{})
	if !ok {
		if s, ok := value.(string); ok {
			return Rendered{Text: s}
		}
		return Rendered{JSON: value, IsJSON: true}
	}

	outcome, _ := m["outcome"].(map[string]interface{})
	if outcome != nil {
		if output, exists := outcome["output"]; exists {
			if om, ok := output.(map[string]interface{}); ok {
				if text, ok := om["text"].(string); ok && text != "" {
					if repl, ok := om["replacements"].(map[string]interface{}); ok {
						text = applyReplacements(text, repl)
					}
					return Rendered{Text: text}
				}
				return Rendered{JSON: om, IsJSON: true}
			}
			if s, ok := output.(string); ok {
				return Rendered{Text: s}
			}
			return Rendered{JSON: output, IsJSON: true}
		}
	}

	return Rendered{JSON: m, IsJSON: true}
}

// applyReplacements substitutes {key} placeholders in text.
func applyReplacements(text string, replacements map[string]interface{}) string {
	for key, value := range replacements {
		text = strings.ReplaceAll(text, "{"+key+"}", fmt.Sprint(value))
	}
	return text
}

// ObservationArguments reduces an observation input to its arguments field,
// falling back to the whole parsed payload.  Returns nil when the payload is
// missing or unparseable.
func ObservationArguments(raw json.RawMessage) interface{} {
	value, ok := decode(raw)
	if !ok {
		return nil
	}

	if m, ok := value.(map[string]interface{}); ok {
		if args, exists := m["arguments"]; exists {
			return args
		}
	}

	return value
}

// ObservationResult unwraps an observation output to the nested
// result.result, tolerating a double-stringified result field, falling back
// outward to result and then the whole payload.  Returns nil when the payload
// is missing or unparseable.
func ObservationResult(raw json.RawMessage) interface{} {
	value, ok := decode(raw)
	if !ok {
		return nil
	}

	m, ok := value.(map[string]interface{})
	if !ok {
		return value
	}

	result, exists := m["result"]
	if !exists {
		return m
	}

	// Some agents stringify the result separately from the envelope.
	if s, ok := result.(string); ok {
		var inner interface{}
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			result = inner
		}
	}

	if rm, ok := result.(map[string]interface{}); ok {
		if nested, exists := rm["result"]; exists {
			return nested
		}
	}

	return result
}

// IsLLMCall reports whether an observation is an LLM call rather than a tool
// call.  The conversation view hides these.
func IsLLMCall(name string) bool {
	return strings.Contains(strings.ToLower(name), "llm-call")
}
