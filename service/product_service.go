package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", core.ErrInvalidProduct)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", core.ErrInvalidProduct)
	}
	return nil
}

// ProductService handles storefront listings. Mutations are allowed to the
// owner of a product or to any registry admin.
type ProductService struct {
	repo     ports.ProductRepository
	registry ports.AdminRegistry
}

// NewProductService creates a new product service.
func NewProductService(repo ports.ProductRepository, registry ports.AdminRegistry) *ProductService {
	return &ProductService{repo: repo, registry: registry}
}

func (s *ProductService) List(ctx context.Context) ([]*core.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*core.Product, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a listing owned by the given address.
func (s *ProductService) Create(ctx context.Context, owner string, in ProductInput) (*core.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &core.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Owner:       owner,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update rewrites a listing. The actor must own it or be an admin.
func (s *ProductService) Update(ctx context.Context, actor, id string, in ProductInput) (*core.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(actor, product) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotOwner, id)
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.ImageURL = in.ImageURL
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Put(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a listing. The actor must own it or be an admin.
func (s *ProductService) Delete(ctx context.Context, actor, id string) error {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.canModify(actor, product) {
		return fmt.Errorf("%w: %s", core.ErrNotOwner, id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) canModify(actor string, product *core.Product) bool {
	return strings.EqualFold(actor, product.Owner) || s.registry.IsAdmin(actor)
}
