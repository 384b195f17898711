package middlewares

import (
	"facegate.io/application/constants"
	"facegate.io/application/interfaces"
	"facegate.io/infrastructure/useragent"
)

// UserAgentMiddleware records the client's user agent and a device label.
// Requests without the header are let through with empty values.
func UserAgentMiddleware(ctx *interfaces.ApplicationContext[any], clientIP string) (*interfaces.ApplicationContext[any], bool) {
	ctx.ClientIP = clientIP
	agent := ctx.GetHeader("User-Agent")
	if agent == nil || *agent == "" {
		return ctx, true
	}
	agentDetails := useragent.ParseUserAgent(*agent)
	ctx.UserAgent = *agent
	ctx.DeviceName = agentDetails.DeviceName()
	ctx.SetContextData(constants.USER_AGENT_KEY, ctx.UserAgent)
	ctx.SetContextData(constants.DEVICE_NAME_KEY, ctx.DeviceName)
	return ctx, true
}
