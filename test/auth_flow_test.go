package test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/DarThunder/tienda-api/internal/dto"
)

func (s *IntegrationTestSuite) Test_RegisterAndLogin() {
	username := fmt.Sprintf("it-user-%d", time.Now().UnixNano())
	password := "123456"

	resp := s.doJSON(http.MethodPost, "/auth/register", "", dto.UserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created dto.IDResponse
	decodeData(s, resp, &created)
	s.NotZero(created.ID)

	// same username twice must be rejected
	resp = s.doJSON(http.MethodPost, "/auth/register", "", dto.UserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/auth/login", "", dto.UserRequest{
		Username: username,
		Password: password,
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	decodeData(s, resp, &login)
	s.NotEmpty(login.Token)

	var me dto.UserResponse
	resp = s.doJSON(http.MethodGet, "/auth/me", login.Token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	decodeData(s, resp, &me)
	s.Equal(username, me.Username)
	s.Equal(created.ID, me.ID)

	resp = s.doJSON(http.MethodPost, "/auth/login", "", dto.UserRequest{
		Username: username,
		Password: "wrong-password",
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) Test_ForgotPasswordNeverRevealsAccounts() {
	resp := s.doJSON(http.MethodPost, "/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Username: "no-such-user",
	})
	resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
