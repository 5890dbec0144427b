package bukku

import "fmt"

// RemoteError is an application-level rejection from the Bukku API,
// as opposed to a network or timeout failure. Callers should treat the
// message as opaque and not infer behaviour from the status code.
type RemoteError struct {
	// Message is the error message reported by the API.
	Message string

	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// Error returns the error message.
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bukku: %s", e.Message)
	}
	return fmt.Sprintf("bukku: HTTP error %d", e.StatusCode)
}
