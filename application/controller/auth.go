package controller

import (
	"context"
	"net/http"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/constants"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	authusecase "facegate.io/application/usecases/auth"
	"facegate.io/infrastructure/auth"
	server_response "facegate.io/infrastructure/serverResponse"
	"facegate.io/infrastructure/validator"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *authusecase.AuthService
}

func NewAuthController(authService *authusecase.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

func (ac *AuthController) Register(ctx *interfaces.ApplicationContext[dto.RegisterDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	err := ac.AuthService.Register(requestContext(ctx.Ctx), authusecase.RegisterInput{
		FirstName: ctx.Body.FirstName,
		LastName:  ctx.Body.LastName,
		Email:     ctx.Body.Email,
		Password:  ctx.Body.Password,
		Role:      ctx.Body.Role,
		Image:     ctx.Body.Image,
		UserAgent: ctx.UserAgent,
	})
	if err != nil {
		apperrors.Respond(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, dto.MessageResponseDTO{
		Message: "User registered successfully",
	})
}

func (ac *AuthController) Login(ctx *interfaces.ApplicationContext[dto.LoginDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	result, err := ac.AuthService.Login(requestContext(ctx.Ctx), authusecase.LoginInput{
		Email:      ctx.Body.Email,
		Password:   ctx.Body.Password,
		Image:      ctx.Body.Image,
		UserAgent:  ctx.UserAgent,
		DeviceName: ctx.DeviceName,
	})
	if err != nil {
		apperrors.Respond(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.LoginResponseDTO{
		Token: result.Token,
		Role:  result.Role,
	})
}

func (ac *AuthController) Me(ctx *interfaces.ApplicationContext[any]) {
	claims, ok := ctx.GetContextData(constants.AUTH_TOKEN_CLAIMS_KEY).(*auth.AuthClaims)
	if !ok || claims == nil {
		apperrors.AuthenticationError(ctx.Ctx, "unauthorised access")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.MeResponseDTO{
		Email: claims.Email,
		Role:  claims.Role,
	})
}

func requestContext(ctx any) context.Context {
	if ginCtx, ok := ctx.(*gin.Context); ok && ginCtx.Request != nil {
		return ginCtx.Request.Context()
	}
	return context.Background()
}
