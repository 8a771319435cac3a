package utils

import (
	"time"

	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

const (
	TokenLifetime      = 24 * time.Hour
	ResetTokenLifetime = 15 * time.Minute

	PurposePasswordReset = "password_reset"
)

func CreateJWTToken(userID int64, userName string, externalID string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["userID"] = userID
	claims["name"] = userName
	claims["externalID"] = externalID
	claims["exp"] = time.Now().Add(TokenLifetime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

func CreatePasswordResetToken(userID int64, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["userID"] = userID
	claims["purpose"] = PurposePasswordReset
	claims["exp"] = time.Now().Add(ResetTokenLifetime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// ParseJWTToken validates the signature and expiry of a bearer token and
// returns its claims. Errors are already mapped to the auth taxonomy.
func ParseJWTToken(tokenString string, jwtSecretKey string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errs.ErrExpiredToken
		}
		return nil, errs.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errs.ErrInvalidToken
	}

	return claims, nil
}

// TokenUserID reads a numeric userID claim. JSON numbers decode as float64.
func TokenUserID(claims jwt.MapClaims) (int64, error) {
	userID, ok := claims["userID"].(float64)
	if !ok {
		return 0, errs.ErrInvalidToken
	}
	return int64(userID), nil
}

// ExtractTokenUser returns the authenticated user id stored on the echo
// context by the bearer auth middleware.
func ExtractTokenUser(c echo.Context) (int64, bool) {
	userID, ok := c.Get("userID").(int64)
	return userID, ok
}
