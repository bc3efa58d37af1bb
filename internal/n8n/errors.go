package n8n

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is the normalized form of every failure the n8n API can
// produce. Status is the HTTP status code, or 0 when the request never got
// a response (network error, timeout). RawBody keeps the engine's response
// for diagnostics.
type RemoteError struct {
	Status  int
	Message string
	RawBody []byte
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("n8n request failed: %s", e.Message)
	}
	return fmt.Sprintf("n8n API error (status %d): %s", e.Status, e.Message)
}

// Temporary reports whether the failure is worth retrying on a later
// reconciliation pass: network errors and 5xx responses. 4xx responses
// indicate a malformed graph or auth failure and need operator attention.
func (e *RemoteError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500
}

// IsNotFound reports whether err is a RemoteError for a missing resource.
// Delete callers use this to treat already-gone resources as success.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}
