package offerapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HTTPError is a non-2xx answer from the backend. Message is what the user
// sees in the error banner.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// newHTTPError prefers the backend's own message, then its error field,
// then a generic status line.
func newHTTPError(status int, body []byte) *HTTPError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := strings.TrimSpace(eb.Message); msg != "" {
			return &HTTPError{Status: status, Message: msg}
		}
		if msg := strings.TrimSpace(eb.Error); msg != "" {
			return &HTTPError{Status: status, Message: msg}
		}
	}
	return &HTTPError{Status: status, Message: fmt.Sprintf("HTTP error! Status: %d", status)}
}
