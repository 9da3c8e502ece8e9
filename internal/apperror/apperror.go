package apperror

import (
	"net/http"
)

const (
	MsgNoFile          = "No file provided"
	MsgNoSelectedFile  = "No selected file"
	MsgInvalidImage    = "Invalid image file"
	MsgNoPrediction    = "No valid prediction made"
	MsgPredictionError = "An error occurred during prediction. Please try again later."
)

// Error carries the HTTP status and client-safe message for a failure.
// Raw is kept for logging only and is never written to the client.
type Error struct {
	Raw      error
	HTTPCode int
	Message  string
}

func NewError(err error, httpCode int, message string) Error {
	return Error{
		Raw:      err,
		HTTPCode: httpCode,
		Message:  message,
	}
}

func (e Error) Error() string {
	if e.Raw == nil {
		return e.Message
	}

	return e.Message + ": " + e.Raw.Error()
}

func (e Error) Unwrap() error {
	return e.Raw
}

// 400 Bad Request
func ErrNoFile(err error) Error {
	return NewError(err, http.StatusBadRequest, MsgNoFile)
}

func ErrNoSelectedFile(err error) Error {
	return NewError(err, http.StatusBadRequest, MsgNoSelectedFile)
}

func ErrInvalidImage(err error) Error {
	return NewError(err, http.StatusBadRequest, MsgInvalidImage)
}

// 500 Internal Server Error
func ErrNoPrediction(err error) Error {
	return NewError(err, http.StatusInternalServerError, MsgNoPrediction)
}

func ErrPrediction(err error) Error {
	return NewError(err, http.StatusInternalServerError, MsgPredictionError)
}
