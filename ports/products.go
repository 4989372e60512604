package ports

import (
	"context"

	"github.com/vitrin-shop/vitrin/core"
)

// ProductRepository persists storefront listings.
type ProductRepository interface {
	List(ctx context.Context) ([]*core.Product, error)
	// Get returns core.ErrProductNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*core.Product, error)
	Put(ctx context.Context, product *core.Product) error
	Delete(ctx context.Context, id string) error
}
