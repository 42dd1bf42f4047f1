package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/service"
)

type AuthHandler struct {
	accounts *service.AccountService
}

func RegisterAuth(e *echo.Echo, accounts *service.AccountService) {
	handler := &AuthHandler{accounts: accounts}

	e.POST("/auth/login", handler.login)
	e.POST("/auth/register", handler.register)
	if accounts.GoogleEnabled() {
		e.POST("/auth/google", handler.google)
	}
}

type sessionResponse struct {
	Account   *domain.Account `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	account, token, expiresAt, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "login successful", sessionResponse{
		Account:   account,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) register(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	account, err := h.accounts.Register(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "account registered successfully", account)
}

func (h *AuthHandler) google(c echo.Context) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	account, token, expiresAt, err := h.accounts.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "login successful", sessionResponse{
		Account:   account,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
