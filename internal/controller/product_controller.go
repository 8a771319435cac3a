package controller

import (
	"net/http"
	"strconv"

	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/service"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ProductController struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService) {
	pc := ProductController{
		service: service,
	}
	e.GET("/products", pc.GetProducts)
	e.GET("/products/:id", pc.GetProductByID)
	e.POST("/products", pc.AddProduct)
	e.PUT("/products/:id", pc.UpdateProduct)
	e.DELETE("/products/:id", pc.DeleteProduct)
}

// pathID parses the trailing identifier segment as a positive integer.
func pathID(e echo.Context) (int64, error) {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrClient
	}
	return id, nil
}

func (c *ProductController) GetProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	if err := filter.Validate(); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	resp, err := c.service.GetProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) GetProductByID(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	resp, err := c.service.GetProductByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	id, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, dto.IDResponse{ID: id})
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	payload := dto.ProductRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	payload.ID = id
	resp, err := c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	err = c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, nil)
}
