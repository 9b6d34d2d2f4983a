package handlers

const (
	ErrInvalidRequestBody  = "Invalid request body"
	ErrInvalidVerseID      = "Invalid verse id"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
)
