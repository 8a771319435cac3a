package test

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/labstack/echo/v4"
)

func (s *IntegrationTestSuite) registerAndLogin() string {
	username := fmt.Sprintf("it-buyer-%d", time.Now().UnixNano())

	resp := s.doJSON(http.MethodPost, "/auth/register", "", dto.UserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "123456",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/auth/login", "", dto.UserRequest{
		Username: username,
		Password: "123456",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	decodeData(s, resp, &login)

	return login.Token
}

func (s *IntegrationTestSuite) createProduct(stock int64) int64 {
	resp := s.doJSON(http.MethodPost, "/products", "", dto.ProductRequest{
		Name:  fmt.Sprintf("Camisa %d", time.Now().UnixNano()),
		Price: 250,
		Size:  "M",
		Stock: stock,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created dto.IDResponse
	decodeData(s, resp, &created)
	s.Require().NotZero(created.ID)

	return created.ID
}

func (s *IntegrationTestSuite) Test_OrderFlow() {
	token := s.registerAndLogin()
	productID := s.createProduct(10)

	resp := s.doJSON(http.MethodPost, "/orders", token, dto.OrderRequest{
		OrderItems: []dto.OrderItem{{ProductID: productID, Quantity: 3}},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created dto.IDResponse
	decodeData(s, resp, &created)
	s.NotZero(created.ID)

	var product dto.ProductResponse
	resp = s.doJSON(http.MethodGet, fmt.Sprintf("/products/%d", productID), "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	decodeData(s, resp, &product)
	s.Equal(int64(7), product.Stock)

	var order dto.OrderResponse
	resp = s.doJSON(http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	decodeData(s, resp, &order)
	s.Equal(float64(750), order.Total)
	s.Len(order.Items, 1)

	var orders []dto.OrderResponse
	resp = s.doJSON(http.MethodGet, "/orders", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	decodeData(s, resp, &orders)
	s.NotEmpty(orders)
}

func (s *IntegrationTestSuite) Test_OrderInsufficientStock() {
	token := s.registerAndLogin()
	productID := s.createProduct(2)

	resp := s.doJSON(http.MethodPost, "/orders", token, dto.OrderRequest{
		OrderItems: []dto.OrderItem{{ProductID: productID, Quantity: 5}},
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// stock untouched after the rejected order
	var product dto.ProductResponse
	resp = s.doJSON(http.MethodGet, fmt.Sprintf("/products/%d", productID), "", nil)
	decodeData(s, resp, &product)
	s.Equal(int64(2), product.Stock)
}

func (s *IntegrationTestSuite) Test_ConcurrentOrdersNoOversell() {
	token := s.registerAndLogin()
	stock := 5
	productID := s.createProduct(int64(stock))

	attempts := stock + 3
	statuses := make(chan int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := bytes.NewBufferString(fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}]}`, productID))
			req, err := http.NewRequest(http.MethodPost,
				fmt.Sprintf("http://localhost:%s/orders", s.app.Config.ServicePort), body)
			if err != nil {
				statuses <- 0
				return
			}
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var created, rejected int
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			rejected++
		default:
			s.Failf("unexpected order status", "got %d", code)
		}
	}

	// exactly stock winners, everyone else refused, nothing oversold
	s.Equal(stock, created)
	s.Equal(attempts-stock, rejected)

	var product dto.ProductResponse
	resp := s.doJSON(http.MethodGet, fmt.Sprintf("/products/%d", productID), "", nil)
	decodeData(s, resp, &product)
	s.Equal(int64(0), product.Stock)
}

func (s *IntegrationTestSuite) Test_OrderRequiresAuth() {
	productID := s.createProduct(5)

	resp := s.doJSON(http.MethodPost, "/orders", "", dto.OrderRequest{
		OrderItems: []dto.OrderItem{{ProductID: productID, Quantity: 1}},
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) Test_UnknownRoute() {
	resp := s.doJSON(http.MethodGet, "/no-such-route", "", nil)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
