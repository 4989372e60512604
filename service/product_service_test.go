package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrin-shop/vitrin/adapters/store"
	"github.com/vitrin-shop/vitrin/core"
)

const (
	ownerAddr = "0x0000000000000000000000000000000000000AAA"
	adminAddr = "0x0000000000000000000000000000000000000bbb"
	otherAddr = "0x0000000000000000000000000000000000000ccc"
)

func newTestProductService() *ProductService {
	return NewProductService(store.NewMemoryProductRepository(), newStubRegistry(adminAddr))
}

func validInput() ProductInput {
	return ProductInput{
		Name:        "Tote bag",
		Description: "Canvas, 12oz",
		Price:       decimal.RequireFromString("19.50"),
		ImageURL:    "https://cdn.example.com/tote.png",
	}
}

func TestProductCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, ownerAddr, created.Owner)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tote bag", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.50")))
}

func TestProductCreateInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	in := validInput()
	in.Name = "   "
	_, err := svc.Create(ctx, ownerAddr, in)
	assert.ErrorIs(t, err, core.ErrInvalidProduct)

	in = validInput()
	in.Price = decimal.NewFromInt(-1)
	_, err = svc.Create(ctx, ownerAddr, in)
	assert.ErrorIs(t, err, core.ErrInvalidProduct)
}

func TestProductUpdateByOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Tote bag v2"
	updated, err := svc.Update(ctx, ownerAddr, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Tote bag v2", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestProductUpdateOwnerCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "0x0000000000000000000000000000000000000aaa", created.ID, validInput())
	assert.NoError(t, err)
}

func TestProductUpdateByStranger(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, otherAddr, created.ID, validInput())
	assert.ErrorIs(t, err, core.ErrNotOwner)
}

func TestProductUpdateByAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Price = decimal.RequireFromString("0")
	updated, err := svc.Update(ctx, adminAddr, created.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Price.IsZero())
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestProductService()

	created, err := svc.Create(ctx, ownerAddr, validInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, otherAddr, created.ID), core.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, adminAddr, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrProductNotFound)
}

func TestProductUpdateUnknown(t *testing.T) {
	svc := newTestProductService()
	_, err := svc.Update(context.Background(), ownerAddr, "missing", validInput())
	assert.ErrorIs(t, err, core.ErrProductNotFound)
}
