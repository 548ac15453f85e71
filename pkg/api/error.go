package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// Fallback is returned by ExtractError when no message can be resolved from
// the payload.
const Fallback = "Something went wrong"

// Error is a server-reported failure: a completed request with a non-2xx
// status. The message is resolved via ExtractError.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("quizdesk api: %s (status %d)", e.Message, e.StatusCode)
}

// AsError converts a non-2xx response into an *Error. Returns nil for 2xx.
func AsError(resp *Response) error {
	if resp.OK() {
		return nil
	}
	return &Error{StatusCode: resp.StatusCode, Message: ExtractError(resp.Body)}
}

var errStopIteration = errors.New("stop")

// ExtractError resolves a display message from a server error payload.
//
// Resolution order: a bare JSON string payload; a "message" field; a
// "detail" field; an "error" field; then the first field in document order
// whose value is a string or a non-empty array of strings (the shape of
// field-keyed validation errors). Anything else yields Fallback.
//
// Pure function; used identically on every list and mutation error path.
func ExtractError(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Fallback
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
			return s
		}
	}

	for _, key := range []string{"message", "detail", "error"} {
		if s, err := jsonparser.GetString(trimmed, key); err == nil && s != "" {
			return s
		}
	}

	var found string
	_ = jsonparser.ObjectEach(trimmed, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		switch vt {
		case jsonparser.Array:
			var first string
			_, _ = jsonparser.ArrayEach(value, func(v []byte, avt jsonparser.ValueType, _ int, _ error) {
				if first == "" && avt == jsonparser.String {
					if s, err := jsonparser.ParseString(v); err == nil {
						first = s
					}
				}
			})
			if first != "" {
				found = first
				return errStopIteration
			}
		case jsonparser.String:
			if s, err := jsonparser.ParseString(value); err == nil && s != "" {
				found = s
				return errStopIteration
			}
		}
		return nil
	})
	if found != "" {
		return found
	}
	return Fallback
}
