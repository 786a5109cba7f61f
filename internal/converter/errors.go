package converter

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/young1lin/agent-web-search/internal/apperr"
)

// maxErrorBody bounds, in characters, how much of an unstructured error body
// is echoed
const maxErrorBody = 500

// errorMessagePaths are the places providers put a human-readable error, in
// order of preference. Brave uses error.detail, Linkup uses error.message.
var errorMessagePaths = []string{
	"error.message",
	"error.detail",
	"errors.0.detail",
	"errors.0.message",
	"message",
	"detail",
	"error",
}

// ProviderError builds the error for a non-2xx response from whatever
// structured fields the body carries, falling back to the raw body text and
// then the status text.
func ProviderError(status int, body []byte) *apperr.ProviderError {
	return &apperr.ProviderError{
		StatusCode: status,
		Message:    errorMessage(status, body),
	}
}

func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range errorMessagePaths {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return strings.TrimSpace(v.Str)
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		if runes := []rune(text); len(runes) > maxErrorBody {
			text = string(runes[:maxErrorBody])
		}
		return text
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unknown error"
}

// flaggedError detects a 2xx body that explicitly marks itself as failed
// with "success": false or "type": "ErrorResponse".
func flaggedError(status int, body []byte) error {
	root := gjson.ParseBytes(body)

	if success := root.Get("success"); success.Exists() && success.Type == gjson.False {
		return ProviderError(status, body)
	}
	if root.Get("type").String() == "ErrorResponse" {
		return ProviderError(status, body)
	}
	return nil
}

// embeddedError detects an error reported inside a 2xx body, including a
// top-level "error" field
func embeddedError(status int, body []byte) error {
	if err := flaggedError(status, body); err != nil {
		return err
	}
	if e := gjson.GetBytes(body, "error"); e.IsObject() || (e.Type == gjson.String && e.Str != "") {
		return ProviderError(status, body)
	}
	return nil
}

// checkStatus turns non-2xx statuses and undecodable bodies into provider
// errors
func checkStatus(status int, body []byte) error {
	if status < 200 || status > 299 {
		return ProviderError(status, body)
	}
	if !gjson.ValidBytes(body) {
		return &apperr.ProviderError{StatusCode: status, Message: "invalid JSON in response body"}
	}
	return nil
}
