package apperrors

import (
	"errors"
	"net/http"

	"facegate.io/infrastructure/logger"
	server_response "facegate.io/infrastructure/serverResponse"
)

type Kind string

const (
	InputError             Kind = "InputError"
	InvalidImage           Kind = "InvalidImage"
	DuplicateIdentity      Kind = "DuplicateIdentity"
	CredentialMismatch     Kind = "CredentialMismatch"
	FaceVerificationFailed Kind = "FaceVerificationFailed"
	Internal               Kind = "Internal"
)

const internalErrorMessage = "Something went wrong on our end. Please try again later."

// AppError is the outcome of a rejected use case. Message is safe to show
// to clients; Err keeps the underlying cause for logs.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// StatusCode maps a Kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case InputError, InvalidImage, DuplicateIdentity:
		return http.StatusBadRequest
	case CredentialMismatch, FaceVerificationFailed:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an AppError of kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Respond writes err to the client. Internal failures are logged and
// replaced with a generic message.
func Respond(ctx interface{}, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = New(Internal, internalErrorMessage, err)
	}
	if appErr.Kind == Internal {
		logger.Error("request failed with internal error", logger.LoggerOptions{
			Key:  "error",
			Data: appErr.Error(),
		})
		FatalServerError(ctx)
		return
	}
	server_response.Responder.RespondError(ctx, appErr.StatusCode(), appErr.Message, nil)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error) {
	server_response.Responder.RespondError(ctx, http.StatusBadRequest, "Payload validation failed", *errMessages)
}

func AuthenticationError(ctx interface{}, message string) {
	server_response.Responder.RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func ErrorProcessingPayload(ctx interface{}) {
	server_response.Responder.RespondError(ctx, http.StatusBadRequest, "Abnormal payload passed", nil)
}

func NotFoundError(ctx interface{}, message string) {
	server_response.Responder.RespondError(ctx, http.StatusNotFound, message, nil)
}

func FatalServerError(ctx interface{}) {
	server_response.Responder.RespondError(ctx, http.StatusInternalServerError, internalErrorMessage, nil)
}
