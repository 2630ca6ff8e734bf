// Package api defines the shared JSON envelope types used by the REST handlers.
package api

// ErrorResponse is the uniform error body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human-readable confirmation for simple operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenPairResponse is returned by login and refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CountResponse reports how many rows a bulk operation touched.
type CountResponse struct {
	Count int `json:"count"`
}
