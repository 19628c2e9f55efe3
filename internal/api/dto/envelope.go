package dto

// Envelope is the uniform response shape for every operation. Failures
// carry Success=false and a human-readable message; the data field is
// omitted.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
