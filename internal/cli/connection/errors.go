package connection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is the only error type Client returns. Message is what users see.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any, for logging.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(cause error, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), cause: cause}
}

// messageFromBody extracts a human-readable message from an error
// response body: "detail" first, then "message", else "HTTP <status>".
func messageFromBody(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	if msg := fieldMessage(payload["detail"]); msg != "" {
		return msg
	}
	if msg := fieldMessage(payload["message"]); msg != "" {
		return msg
	}
	return fallback
}

// fieldMessage renders a detail/message value. Strings are used as-is;
// validation lists of {"msg": ...} objects are joined; anything else
// non-empty is rendered as compact JSON.
func fieldMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) == len(items) {
			return strings.Join(msgs, "; ")
		}
	}

	switch string(raw) {
	case "false", "0", `""`, "[]", "{}":
		return ""
	}
	return string(raw)
}
