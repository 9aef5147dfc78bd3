package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mamutes/party-service/internal/model"
	"github.com/mamutes/party-service/internal/repository"
	"github.com/mamutes/party-service/internal/utils"
)

// UserFinder looks a user up by a single column. repository.Repo and
// repository.MemRepo both provide it.
type UserFinder interface {
	FindFirstBy(ctx context.Context, column string, value any) (*model.User, error)
}

// UserAccounts is what registration and login need from the user store.
type UserAccounts interface {
	UserFinder
	Insert(ctx context.Context, u *model.User) error
}

// AuthHandler registers users and issues access tokens for them.
type AuthHandler struct {
	users  UserAccounts
	secret string
	ttlMin int
}

func NewAuthHandler(users UserAccounts, secret string, ttlMin int) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttlMin: ttlMin}
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type registerResp struct {
	User *model.User `json:"user"`
	loginResp
}

var (
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errEmailExists        = echo.NewHTTPError(http.StatusConflict, "email already exists")
)

// Register: create a user from the full user schema and return a token for
// it right away, so an empty store can be bootstrapped with auth enabled.
func (h *AuthHandler) Register(c echo.Context) error {
	var req model.UserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	*req.Email = strings.TrimSpace(*req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.users.FindFirstBy(ctx, "email", *req.Email)
	switch {
	case err == nil:
		return errEmailExists
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	var u model.User
	req.ApplyTo(&u)
	if err := h.users.Insert(ctx, &u); err != nil {
		return err
	}
	tok, err := utils.NewAccessToken(h.secret, u.UserID, u.Type, h.ttlMin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registerResp{
		User:      &u,
		loginResp: loginResp{AccessToken: tok.Token, TokenType: "bearer", ExpiresAt: tok.Exp},
	})
}

// Login: verify email/password and return a bearer token whose subject is
// the user id and whose role is the user's type.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.FindFirstBy(ctx, "email", strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errInvalidCredentials
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(req.Password)) != 1 {
		return errInvalidCredentials
	}

	tok, err := utils.NewAccessToken(h.secret, u.UserID, u.Type, h.ttlMin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		ExpiresAt:   tok.Exp,
	})
}
