package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

// RedisProductRepository stores products as JSON records plus a set index
// for listing. Products do not expire.
type RedisProductRepository struct {
	client   *redis.Client
	prefix   string
	indexKey string
}

// NewRedisProductRepository creates a Redis-backed product repository.
func NewRedisProductRepository(client *redis.Client) ports.ProductRepository {
	return &RedisProductRepository{
		client:   client,
		prefix:   "vitrin:product:",
		indexKey: "vitrin:products",
	}
}

func (r *RedisProductRepository) List(ctx context.Context) ([]*core.Product, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		product, err := r.Get(ctx, id)
		if errors.Is(err, core.ErrProductNotFound) {
			// Index entry outlived its record; skip and let Delete heal it.
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *RedisProductRepository) Get(ctx context.Context, id string) (*core.Product, error) {
	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	var product core.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &product, nil
}

func (r *RedisProductRepository) Put(ctx context.Context, product *core.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.prefix+product.ID, data, 0)
	pipe.SAdd(ctx, r.indexKey, product.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (r *RedisProductRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.prefix+id)
	pipe.SRem(ctx, r.indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
