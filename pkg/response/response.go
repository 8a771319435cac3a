package response

import (
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteSuccessResponse(c echo.Context, statusCode int, data interface{}) error {
	resp := SuccessResponse{}
	resp.Data = data

	return c.JSON(statusCode, resp)
}

func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	if statusCode == errs.ErrStatusInternalServer {
		// never leak internal detail; the full error is logged server-side
		resp.Error = errs.ErrInternalServer.Error()
	} else {
		resp.Error = err.Error()
	}

	return c.JSON(statusCode, resp)
}
