package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthenticated is returned for any 401 response. Callers decide whether
// to surface it or treat it as an empty result.
var ErrUnauthenticated = errors.New("not authenticated")

// RequestError is any non-2xx response other than a 401. Message carries the
// server-provided message when the body had one, otherwise the status line.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// newRequestError builds a RequestError from a failed response, preferring
// the "message" field of a JSON error body.
func newRequestError(resp *http.Response) error {
	message := resp.Status

	raw, err := io.ReadAll(resp.Body)
	if err == nil && len(raw) > 0 {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			message = body.Message
		}
	}

	return &RequestError{StatusCode: resp.StatusCode, Message: message}
}
