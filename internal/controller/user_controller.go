package controller

import (
	"net/http"

	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/service"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/response"
	"github.com/DarThunder/tienda-api/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(e *echo.Group, service service.UserService, isLoggedIn echo.MiddlewareFunc) {
	uc := UserController{
		service: service,
	}
	e.POST("/auth/register", uc.Register)
	e.POST("/auth/login", uc.Login)
	e.GET("/auth/me", uc.GetProfile, isLoggedIn)
	e.POST("/auth/forgot-password", uc.ForgotPassword)
	e.POST("/auth/reset-password", uc.ResetPassword)
}

func (c *UserController) Register(e echo.Context) error {
	payload := dto.UserRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	id, err := c.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, dto.IDResponse{ID: id})
}

func (c *UserController) Login(e echo.Context) error {
	payload := dto.UserRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	respPayload, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, respPayload)
}

func (c *UserController) GetProfile(e echo.Context) error {
	userID, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn)
	}

	resp, err := c.service.GetProfile(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) ForgotPassword(e echo.Context) error {
	payload := dto.ForgotPasswordRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ForgotPassword").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	err = c.service.ForgotPassword(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, "if the account exists, a reset mail has been sent")
}

func (c *UserController) ResetPassword(e echo.Context) error {
	payload := dto.ResetPasswordRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ResetPassword").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	err = c.service.ResetPassword(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, nil)
}
