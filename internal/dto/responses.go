package dto

// TokenResponse is returned by login, signup and refresh; the refresh
// token itself travels out of band in a cookie.
type TokenResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"accessToken"`
}

// DataResponse is the generic success envelope.
type DataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Length  *int   `json:"length,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
