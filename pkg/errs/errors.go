package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer    = http.StatusInternalServerError
	ErrStatusClient            = http.StatusBadRequest
	ErrStatusUnauthorized      = http.StatusUnauthorized
	ErrStatusNotFound          = http.StatusNotFound
	ErrStatusConflict          = http.StatusConflict
	ErrStatusStoreUnavailable  = http.StatusServiceUnavailable
	ErrStatusDeadlineExceeded  = http.StatusGatewayTimeout
	ErrStatusUsernameConflict  = http.StatusConflict
	ErrStatusInsufficientStock = http.StatusConflict
)

var (
	ErrInternalServer      = errors.New("internal server error")
	ErrClient              = errors.New("bad request")
	ErrNotLoggedIn         = errors.New("unauthorized access")
	ErrInvalidCredentials  = errors.New("username or password is incorrect")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNotFound            = errors.New("resource not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrUsernameAlreadyUsed = errors.New("username has already been used")
	ErrEmptyProductName    = errors.New("product name must not be empty")
	ErrNegativePrice       = errors.New("product price must not be negative")
	ErrNegativeStock       = errors.New("product stock must not be negative")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("item quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrStoreUnavailable    = errors.New("store unavailable, try again later")
	ErrDeadlineExceeded    = errors.New("request deadline exceeded")
)

var errorMap = map[error]int{
	ErrInternalServer:      ErrStatusInternalServer,
	ErrClient:              ErrStatusClient,
	ErrNotLoggedIn:         ErrStatusUnauthorized,
	ErrInvalidCredentials:  ErrStatusUnauthorized,
	ErrExpiredToken:        ErrStatusUnauthorized,
	ErrInvalidToken:        ErrStatusUnauthorized,
	ErrNotFound:            ErrStatusNotFound,
	ErrProductNotFound:     ErrStatusNotFound,
	ErrOrderNotFound:       ErrStatusNotFound,
	ErrAccountNotFound:     ErrStatusNotFound,
	ErrUsernameAlreadyUsed: ErrStatusUsernameConflict,
	ErrEmptyProductName:    ErrStatusClient,
	ErrNegativePrice:       ErrStatusClient,
	ErrNegativeStock:       ErrStatusClient,
	ErrEmptyOrder:          ErrStatusClient,
	ErrInvalidQuantity:     ErrStatusClient,
	ErrInsufficientStock:   ErrStatusInsufficientStock,
	ErrStoreUnavailable:    ErrStatusStoreUnavailable,
	ErrDeadlineExceeded:    ErrStatusDeadlineExceeded,
}

// GetErrorStatusCode maps a sentinel error to its HTTP status. Unknown errors
// collapse to 500 so no unclassified condition can pick its own status.
func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
