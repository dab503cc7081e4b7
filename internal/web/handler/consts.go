// Package handler provides shared constants and error translation for the
// REST handlers.
package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIRootPath is the base path of the REST API.
	APIRootPath = "/api/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// ErrMsgInvalidID is returned when the id path parameter is not a
	// positive integer.
	ErrMsgInvalidID = "Invalid id"

	// ErrMsgInvalidBody is returned when the request body is not valid JSON.
	ErrMsgInvalidBody = "Invalid request body"

	// ErrMsgUnexpected is the generic message for unexpected failures. The
	// original cause is logged server-side only.
	ErrMsgUnexpected = "An unexpected error occurred."
)
