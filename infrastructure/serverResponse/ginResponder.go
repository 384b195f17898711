package server_response

import (
	"facegate.io/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

type ginResponder struct{}

func ginContext(ctx interface{}) (*gin.Context, bool) {
	ginCtx, ok := (ctx).(*gin.Context)
	if !ok {
		logger.Error("could not transform interface{} to gin.Context in serverResponse package", logger.LoggerOptions{
			Key:  "payload",
			Data: ctx,
		})
		return nil, false
	}
	return ginCtx, true
}

// Respond writes payload as the JSON body and aborts the handler chain.
func (gr ginResponder) Respond(ctx interface{}, code int, payload interface{}) {
	ginCtx, ok := ginContext(ctx)
	if !ok {
		return
	}
	ginCtx.AbortWithStatusJSON(code, payload)
}

// RespondError writes {"error": message} plus any validation messages.
func (gr ginResponder) RespondError(ctx interface{}, code int, message string, errs []error) {
	ginCtx, ok := ginContext(ctx)
	if !ok {
		return
	}
	response := map[string]any{
		"error": message,
	}
	if len(errs) > 0 {
		errMsgs := []string{}
		for _, err := range errs {
			errMsgs = append(errMsgs, err.Error())
		}
		response["errors"] = errMsgs
	}
	if gin.Mode() != gin.ReleaseMode {
		logger.Info("error response", logger.LoggerOptions{
			Key:  "status",
			Data: code,
		}, logger.LoggerOptions{
			Key:  "message",
			Data: message,
		})
	}
	ginCtx.AbortWithStatusJSON(code, response)
}
