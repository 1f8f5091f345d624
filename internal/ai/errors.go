// Package ai translates free-text transaction notes into structured drafts
// by delegating classification to an external language model and repairing
// the reply into strict types.
package ai

import "net/http"

// Error is a normalization failure carrying an HTTP-ish status code so the
// transport layer can map it without inspecting message text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Failure modes of the normalization pipeline.
var (
	// ErrEmptyInput is returned before any external call is made.
	ErrEmptyInput = newError(http.StatusBadRequest, "Say something about the transaction first.")

	// ErrMissingAPIKey means the external model credential is not configured.
	ErrMissingAPIKey = newError(http.StatusInternalServerError, "AI_API_KEY is missing. Add it to your environment.")

	// ErrEmptyResponse means the model returned no usable content.
	ErrEmptyResponse = newError(http.StatusBadGateway, "AI response was empty")

	// ErrNoJSON means the reply contained no JSON object.
	ErrNoJSON = newError(http.StatusBadGateway, "AI response did not contain JSON")

	// ErrInvalidJSON means the extracted payload failed to parse.
	ErrInvalidJSON = newError(http.StatusBadGateway, "AI response was not valid JSON")

	// ErrInvalidAmount means the model's amount was not a positive number.
	// Amount is the one field that fails closed instead of defaulting.
	ErrInvalidAmount = newError(http.StatusUnprocessableEntity, "AI could not determine a valid amount")

	// ErrUpstream is the generic upstream failure when no status is available.
	ErrUpstream = newError(http.StatusBadGateway, "The AI service could not process that entry")
)
