package model

import "time"

const (
	DefaultShoppingQuantity = "1"
	DefaultShoppingCategory = "other"
)

type ShoppingItem struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ItemName    string    `json:"item_name"`
	Quantity    string    `json:"quantity"`
	Category    string    `json:"category"`
	IsPurchased bool      `json:"is_purchased"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
