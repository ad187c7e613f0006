package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vlasovm/shop_backend/internal/service"
	"github.com/vlasovm/shop_backend/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	user, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	pair, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if req.Refresh == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	if err := h.Svc.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return c.JSON(http.StatusResetContent, echo.Map{"detail": "Successfully logged out."})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if req.Refresh == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	access, err := h.Svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.AccessResponse{Access: access})
}
