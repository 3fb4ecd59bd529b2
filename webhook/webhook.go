// Package webhook implements [parley.Transport] for an automation
// webhook backend.
//
// The endpoint answers a JSON POST with either a single object or a
// one-element array wrapping it, depending on how the remote pipeline
// terminates. The reply text lives in an "output" or "response" field;
// an answer without either is still a successful round trip and maps to
// a fixed apology.
package webhook

import "encoding/json"

// fallbackReply substitutes for a reply the remote pipeline produced no
// text for. A missing reply is not a transport error.
const fallbackReply = "I apologize, but I couldn't process your request at this time."

const sendAction = "sendMessage"

// apiRequest is the JSON body sent to the webhook.
type apiRequest struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
	ChatInput string `json:"chatInput"`
}

// legacyRequest is the wire format of older deployments.
type legacyRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// apiResponse is the JSON body returned by the webhook. Both reply
// fields are optional; non-string values are treated as absent.
type apiResponse struct {
	Output   json.RawMessage `json:"output"`
	Response json.RawMessage `json:"response"`
}
