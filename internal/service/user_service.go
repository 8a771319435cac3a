package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DarThunder/tienda-api/config"
	"github.com/DarThunder/tienda-api/internal/domain"
	"github.com/DarThunder/tienda-api/internal/dto"
	"github.com/DarThunder/tienda-api/internal/repository"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
)

// dummyHash is compared against when the username does not exist so that a
// failed login costs the same whether or not the account is real.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService interface {
	Register(ctx context.Context, data dto.UserRequest) (id int64, err error)
	Login(ctx context.Context, payload dto.UserRequest) (respPayload dto.LoginResponse, err error)
	GetProfile(ctx context.Context, userID int64) (resp dto.UserResponse, err error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (err error)
	ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) (err error)
}

type UserServiceImpl struct {
	repo   repository.UserRepository
	config config.Config
}

func CreateUserService(repo repository.UserRepository, config config.Config) UserService {
	return &UserServiceImpl{repo: repo, config: config}
}

func (s *UserServiceImpl) Register(ctx context.Context, data dto.UserRequest) (id int64, err error) {
	if strings.TrimSpace(data.Username) == "" || data.Password == "" {
		return 0, errs.ErrClient
	}

	user, err := s.repo.GetUserByUsername(ctx, data.Username)
	if err != nil {
		return
	}

	if user.ID != 0 {
		return 0, errs.ErrUsernameAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return 0, errs.ErrInternalServer
	}

	userEnt := domain.User{
		Username:       data.Username,
		Email:          data.Email,
		HashedPassword: string(hash),
		ExternalID:     ulid.Make().String(),
	}

	id, err = s.repo.AddUser(ctx, userEnt)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, payload dto.UserRequest) (respPayload dto.LoginResponse, err error) {
	user, err := s.repo.GetUserByUsername(ctx, payload.Username)
	if err != nil {
		return
	}

	if user.ID == 0 {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(payload.Password))
		return respPayload, errs.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		return respPayload, errs.ErrInvalidCredentials
	}

	token, err := utils.CreateJWTToken(user.ID, user.Username, user.ExternalID, s.config.JWTSecret)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return respPayload, errs.ErrInternalServer
	}

	respPayload.Token = token

	return
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID int64) (resp dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return resp, errs.ErrAccountNotFound
	}

	return dto.UserResponse{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Username:   user.Username,
		Email:      user.Email,
	}, nil
}

// ForgotPassword always succeeds from the caller's point of view so that the
// endpoint cannot be used to discover which usernames exist.
func (s *UserServiceImpl) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (err error) {
	user, err := s.repo.GetUserByUsername(ctx, payload.Username)
	if err != nil {
		return
	}

	if user.ID == 0 || user.Email == "" {
		return nil
	}

	token, err := utils.CreatePasswordResetToken(user.ID, s.config.JWTSecret)
	if err != nil {
		log.Error().Err(err).Str("component", "ForgotPassword").Msg("")
		return nil
	}

	if s.config.SMTPConfig.Host == "" {
		log.Info().Str("component", "ForgotPassword").Msg("SMTP is not configured, skipping reset mail")
		return nil
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.SMTPConfig.Sender)
	message.SetHeader("To", user.Email)
	message.SetHeader("Subject", "Password reset request")
	message.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nUse this token to reset your password within the next 15 minutes:\n\n%s\n", user.Username, token))

	err = utils.SendEmail(message, s.config.SMTPConfig.Sender, s.config.SMTPConfig.Password, s.config.SMTPConfig.Host, s.config.SMTPConfig.Port)
	if err != nil {
		log.Error().Err(err).Str("component", "ForgotPassword").Msg("")
	}

	return nil
}

func (s *UserServiceImpl) ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) (err error) {
	if payload.Password == "" {
		return errs.ErrClient
	}

	claims, err := utils.ParseJWTToken(payload.Token, s.config.JWTSecret)
	if err != nil {
		return err
	}

	if purpose, _ := claims["purpose"].(string); purpose != utils.PurposePasswordReset {
		return errs.ErrInvalidToken
	}

	userID, err := utils.TokenUserID(claims)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "ResetPassword").Msg("")
		return errs.ErrInternalServer
	}

	return s.repo.UpdateUserPassword(ctx, userID, string(hash))
}
