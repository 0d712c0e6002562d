package domain

// Envelope is the response wrapper used by the admin API, both by the menu
// endpoint this service reads and by the endpoints it serves.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
