package middleware

import (
	"strings"

	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/response"
	"github.com/DarThunder/tienda-api/pkg/utils"
	"github.com/labstack/echo/v4"
)

// BearerAuth validates the Authorization header and puts the authenticated
// user id on the context for handlers to pick up.
func BearerAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn)
			}

			claims, err := utils.ParseJWTToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err != nil {
				return response.WriteErrorResponse(c, err)
			}

			// reset tokens must not grant API access
			if purpose, _ := claims["purpose"].(string); purpose != "" {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken)
			}

			userID, err := utils.TokenUserID(claims)
			if err != nil {
				return response.WriteErrorResponse(c, err)
			}

			c.Set("userID", userID)

			return next(c)
		}
	}
}
