package catalog

import "fmt"

// APIError is the error body the catalog API returns on non-2xx
// responses.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Reason     string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api error %d: %s", e.StatusCode, e.Message)
}
