package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a storefront listing. Owner is the Ethereum address that
// created it; only the owner or an admin may change or remove it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Owner       string          `json:"owner"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
