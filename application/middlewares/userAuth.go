package middlewares

import (
	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/constants"
	"facegate.io/application/interfaces"
	authusecase "facegate.io/application/usecases/auth"
)

func UserAuthenticationMiddleware(ctx *interfaces.ApplicationContext[any], authService *authusecase.AuthService) (*interfaces.ApplicationContext[any], bool) {
	authorization := ""
	if header := ctx.GetHeader("Authorization"); header != nil {
		authorization = *header
	}
	authResult := authService.IsUserSignedIn(authorization)
	if !authResult.IsAuthenticated {
		apperrors.AuthenticationError(ctx.Ctx, authResult.ErrorMessage)
		return nil, false
	}

	ctx.SetContextData(constants.AUTH_TOKEN_CLAIMS_KEY, authResult.Claims)
	return ctx, true
}
