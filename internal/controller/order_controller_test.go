package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/middleware"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	addOrder     func(ctx context.Context, req dto.OrderRequest) (int64, error)
	getOrders    func(ctx context.Context, userID int64, filter pkgdto.Filter) ([]dto.OrderResponse, error)
	getOrderByID func(ctx context.Context, userID int64, orderID int64) (dto.OrderResponse, error)
}

func (s *stubOrderService) AddOrder(ctx context.Context, req dto.OrderRequest) (int64, error) {
	return s.addOrder(ctx, req)
}

func (s *stubOrderService) GetOrders(ctx context.Context, userID int64, filter pkgdto.Filter) ([]dto.OrderResponse, error) {
	return s.getOrders(ctx, userID, filter)
}

func (s *stubOrderService) GetOrderByID(ctx context.Context, userID int64, orderID int64) (dto.OrderResponse, error) {
	return s.getOrderByID(ctx, userID, orderID)
}

const testJWTSecret = "test-secret"

// newOrderEcho wires the order routes behind the real bearer auth middleware
// so tests cover the full request path.
func newOrderEcho(svc *stubOrderService) *echo.Echo {
	e := echo.New()
	g := e.Group("")
	CreateOrderController(g, svc, middleware.BearerAuth(testJWTSecret))
	return e
}

func TestAddOrderEndpoint(t *testing.T) {
	var captured dto.OrderRequest
	svc := &stubOrderService{
		addOrder: func(ctx context.Context, req dto.OrderRequest) (int64, error) {
			captured = req
			return 1001, nil
		},
	}
	e := newOrderEcho(svc)

	token, err := utils.CreateJWTToken(42, "dar", "ext", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[{"product_id":1,"quantity":2}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(42), captured.UserID, "user id must come from the token, not the body")
	require.Len(t, captured.OrderItems, 1)
	assert.Equal(t, int64(2), captured.OrderItems[0].Quantity)

	var body struct {
		Data dto.IDResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1001), body.Data.ID)
}

func TestAddOrderEndpointUnauthenticated(t *testing.T) {
	svc := &stubOrderService{
		addOrder: func(ctx context.Context, req dto.OrderRequest) (int64, error) {
			t.Fatal("service must not be reached without a token")
			return 0, nil
		},
	}
	e := newOrderEcho(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[{"product_id":1,"quantity":2}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddOrderEndpointErrors(t *testing.T) {
	testCases := []struct {
		Name           string
		ServiceErr     error
		ExpectedStatus int
	}{
		{"empty order", errs.ErrEmptyOrder, http.StatusBadRequest},
		{"unknown product", errs.ErrProductNotFound, http.StatusNotFound},
		{"insufficient stock", errs.ErrInsufficientStock, http.StatusConflict},
		{"store unavailable", errs.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc := &stubOrderService{
				addOrder: func(ctx context.Context, req dto.OrderRequest) (int64, error) {
					return 0, tc.ServiceErr
				},
			}
			e := newOrderEcho(svc)

			token, err := utils.CreateJWTToken(42, "dar", "ext", testJWTSecret)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.ExpectedStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.ServiceErr.Error(), body["error"])
		})
	}
}

func TestGetOrdersEndpoint(t *testing.T) {
	svc := &stubOrderService{
		getOrders: func(ctx context.Context, userID int64, filter pkgdto.Filter) ([]dto.OrderResponse, error) {
			assert.Equal(t, int64(42), userID)
			return []dto.OrderResponse{{ID: 1001, Total: 799.98, Status: "created"}}, nil
		},
	}
	e := newOrderEcho(svc)

	token, err := utils.CreateJWTToken(42, "dar", "ext", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []dto.OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(1001), body.Data[0].ID)
}
