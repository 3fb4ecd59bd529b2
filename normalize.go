package parley

import "encoding/json"

// recordPayload is the superset of fields observed across the legacy
// message shapes stored upstream. Fields that are not strings decode to
// nil and are treated as absent.
type recordPayload struct {
	Type      *string         `json:"type"`
	Content   json.RawMessage `json:"content"`
	ChatInput json.RawMessage `json:"chatInput"`
	Message   json.RawMessage `json:"message"`
	Output    json.RawMessage `json:"output"`
	Response  json.RawMessage `json:"response"`
}

// recordShape pairs a structural predicate with an extraction function.
// Shapes are evaluated in order and the first match wins; a matching
// shape may still emit no messages.
type recordShape struct {
	matches func(p recordPayload) bool
	extract func(p recordPayload) []Message
}

// recordShapes lists the recognized payload shapes in precedence order.
// The order is fixed: a payload carrying both a type discriminator and
// request/reply fields is always read as the discriminated shape.
var recordShapes = []recordShape{
	// {type: "human"|"ai", content} yields one message per record. Records
	// with an unrecognized type are dropped, not an error.
	{
		matches: func(p recordPayload) bool { return p.Type != nil },
		extract: func(p recordPayload) []Message {
			content, ok := asString(p.Content)
			if !ok {
				return nil
			}
			switch *p.Type {
			case "human":
				return []Message{UserMessage(content)}
			case "ai":
				return []Message{AssistantMessage(content)}
			default:
				return nil
			}
		},
	},
	// {chatInput|message, output|response} holds request and reply stored
	// in one record. Either side may be absent; when both are present
	// the record yields two messages, user first.
	{
		matches: func(p recordPayload) bool {
			return p.ChatInput != nil || p.Message != nil || p.Output != nil || p.Response != nil
		},
		extract: func(p recordPayload) []Message {
			var msgs []Message
			if input, ok := firstString(p.ChatInput, p.Message); ok {
				msgs = append(msgs, UserMessage(input))
			}
			if output, ok := firstString(p.Output, p.Response); ok {
				msgs = append(msgs, AssistantMessage(output))
			}
			return msgs
		},
	},
}

// Normalize converts raw history records for one session into the
// canonical transcript shape, preserving the relative order of the input.
// Records whose payload is malformed or matches no known shape contribute
// nothing; normalization is best-effort and never fails.
func Normalize(records []Record) []Message {
	var msgs []Message
	for _, rec := range records {
		var p recordPayload
		if err := json.Unmarshal(rec.Message, &p); err != nil {
			continue
		}
		for _, shape := range recordShapes {
			if shape.matches(p) {
				msgs = append(msgs, shape.extract(p)...)
				break
			}
		}
	}
	return msgs
}

// asString decodes raw JSON to a string. Anything that is not a JSON
// string reports false.
func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// firstString returns the first candidate that decodes to a string.
func firstString(candidates ...json.RawMessage) (string, bool) {
	for _, c := range candidates {
		if s, ok := asString(c); ok {
			return s, true
		}
	}
	return "", false
}
