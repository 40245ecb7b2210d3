package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает закэшированную карточку товара, при промахе (nil, nil).
func (c *CacheRepo) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	key := productKey(slug)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := unmarshalProduct(data)
	if err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		c.dropKey(ctx, key)
		return nil, nil
	}

	if model.Slug != slug {
		c.logger.Warnf("Cache slug mismatch: key_slug: %s, model_slug: %s", slug, model.Slug)
		c.dropKey(ctx, key)
		return nil, nil
	}

	return c.conv.ToEntity(model), nil
}

// SetProduct кэширует карточку товара на RedisCfg.ProductTTL.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(c.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, productKey(product.Slug), data, c.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) DeleteProduct(ctx context.Context, slug string) error {
	if err := c.client.Client.Del(ctx, productKey(slug)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) dropKey(ctx context.Context, key string) {
	if err := c.client.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func unmarshalProduct(data []byte) (*converter.ProductRedisModel, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// productKey возвращает Redis-ключ карточки товара
func productKey(slug string) string {
	return fmt.Sprintf("product:%s", slug)
}
