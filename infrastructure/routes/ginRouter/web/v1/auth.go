package routev1

import (
	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/controller"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	middlewares "facegate.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func AuthRouter(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/register", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.RegisterDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			authController.Register(&interfaces.ApplicationContext[dto.RegisterDTO]{
				Ctx:        ctx,
				Body:       &body,
				UserAgent:  appContext.UserAgent,
				DeviceName: appContext.DeviceName,
				ClientIP:   appContext.ClientIP,
			})
		})

		authRouter.POST("/login", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.LoginDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			authController.Login(&interfaces.ApplicationContext[dto.LoginDTO]{
				Ctx:        ctx,
				Body:       &body,
				UserAgent:  appContext.UserAgent,
				DeviceName: appContext.DeviceName,
				ClientIP:   appContext.ClientIP,
			})
		})

		authRouter.GET("/me", middlewares.AuthenticationMiddleware(authController.AuthService), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			authController.Me(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			})
		})
	}
}
