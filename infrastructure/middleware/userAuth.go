package middlewares

import (
	"facegate.io/application/interfaces"
	"facegate.io/application/middlewares"
	authusecase "facegate.io/application/usecases/auth"
	"github.com/gin-gonic/gin"
)

func AuthenticationMiddleware(authService *authusecase.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		savedCtx := appContextOf(ctx)
		appContext, next := middlewares.UserAuthenticationMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:        ctx,
			Keys:       savedCtx.Keys,
			Header:     ctx.Request.Header,
			UserAgent:  savedCtx.UserAgent,
			DeviceName: savedCtx.DeviceName,
			ClientIP:   savedCtx.ClientIP,
		}, authService)
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}

func appContextOf(ctx *gin.Context) *interfaces.ApplicationContext[any] {
	if saved, ok := ctx.Get("AppContext"); ok {
		if appContext, ok := saved.(*interfaces.ApplicationContext[any]); ok {
			return appContext
		}
	}
	return &interfaces.ApplicationContext[any]{Keys: map[string]any{}}
}
