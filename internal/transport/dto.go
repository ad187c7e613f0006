package transport

import (
	"time"

	"github.com/vlasovm/shop_backend/internal/models"
)

type RegisterRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Password   string `json:"password"`
	RePassword string `json:"re_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type ProductRequest struct {
	ProductName string  `json:"product_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    uint    `json:"category"`
}

// OrderRequest carries a client-supplied user id only so it can be ignored:
// ownership is always taken from the authenticated caller.
type OrderRequest struct {
	Products []uint `json:"products"`
	Quantity *int   `json:"quantity"`
	User     *uint  `json:"user"`
}

type OrderResponse struct {
	ID       uint      `json:"id"`
	User     uint      `json:"user"`
	Products []uint    `json:"products"`
	Quantity uint      `json:"quantity"`
	Date     time.Time `json:"date"`
}

func OrderToResponse(o models.Order) OrderResponse {
	ids := make([]uint, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.ID
	}
	return OrderResponse{
		ID:       o.ID,
		User:     o.UserID,
		Products: ids,
		Quantity: o.Quantity,
		Date:     o.Date,
	}
}

func OrdersToResponse(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = OrderToResponse(o)
	}
	return out
}
