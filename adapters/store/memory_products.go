package store

import (
	"context"
	"sort"
	"sync"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

// MemoryProductRepository is an in-memory ProductRepository for tests.
type MemoryProductRepository struct {
	products map[string]core.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new in-memory product repository.
func NewMemoryProductRepository() ports.ProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]core.Product),
	}
}

func (r *MemoryProductRepository) List(ctx context.Context) ([]*core.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*core.Product, 0, len(r.products))
	for id := range r.products {
		product := r.products[id]
		products = append(products, &product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (r *MemoryProductRepository) Get(ctx context.Context, id string) (*core.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, core.ErrProductNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) Put(ctx context.Context, product *core.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}
