package server_response

type ServerResponder interface {
	Respond(ctx interface{}, code int, payload interface{})
	RespondError(ctx interface{}, code int, message string, errs []error)
}

var Responder ServerResponder = ginResponder{}
