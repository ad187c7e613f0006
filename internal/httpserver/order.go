package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vlasovm/shop_backend/internal/service"
	"github.com/vlasovm/shop_backend/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.OrderToResponse(*order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	orders, err := h.Svc.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OrdersToResponse(orders))
}

func (h *OrderHTTP) OrderHistory(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.OrderHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OrdersToResponse(orders))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.Svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OrderToResponse(*order))
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	order, err := h.Svc.UpdateOrder(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OrderToResponse(*order))
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteOrder(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
