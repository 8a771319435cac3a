package controller

import (
	"net/http"

	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/service"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/response"
	"github.com/DarThunder/tienda-api/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OrderController struct {
	service service.OrderService
}

func CreateOrderController(e *echo.Group, service service.OrderService, isLoggedIn echo.MiddlewareFunc) {
	oc := OrderController{
		service: service,
	}
	e.POST("/orders", oc.AddOrder, isLoggedIn)
	e.GET("/orders", oc.GetOrders, isLoggedIn)
	e.GET("/orders/:id", oc.GetOrderByID, isLoggedIn)
}

func (c *OrderController) AddOrder(e echo.Context) error {
	userID, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn)
	}

	payload := dto.OrderRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	payload.UserID = userID
	id, err := c.service.AddOrder(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, dto.IDResponse{ID: id})
}

func (c *OrderController) GetOrders(e echo.Context) error {
	userID, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn)
	}

	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	if err := filter.Validate(); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	resp, err := c.service.GetOrders(e.Request().Context(), userID, filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *OrderController) GetOrderByID(e echo.Context) error {
	userID, ok := utils.ExtractTokenUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn)
	}

	id, err := pathID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	resp, err := c.service.GetOrderByID(e.Request().Context(), userID, id)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}
