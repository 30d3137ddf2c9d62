package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
)

// CacheManager handles all Redis caching operations. Every failure degrades
// to a cache miss, so the service works identically with no redis at all.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(rdb *redis.Client) *CacheManager {
	return &CacheManager{
		redis: rdb,
		ttl:   DefaultCacheTTL,
	}
}

// GetProductList retrieves the cached full product list.
func (cm *CacheManager) GetProductList(ctx context.Context) ([]*models.Product, bool) {
	if cm.redis == nil {
		return nil, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cachedData, err := cm.redis.Get(ctx, cm.listCacheKey(version)).Result()
	if err != nil {
		return nil, false
	}

	var products []*models.Product
	if err := json.Unmarshal([]byte(cachedData), &products); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductListAsync caches the product list asynchronously.
func (cm *CacheManager) SetProductListAsync(products []*models.Product) {
	if cm.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		jsonBytes, err := json.Marshal(products)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cm.listCacheKey(version), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached single product.
func (cm *CacheManager) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	if cm.redis == nil {
		return nil, false
	}
	cachedData, err := cm.redis.Get(ctx, ProductCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(cachedData), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product asynchronously.
func (cm *CacheManager) SetProductAsync(productID string, product *models.Product) {
	if cm.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}

		if err := cm.redis.Set(bgCtx, ProductCachePrefix+productID, productJSON, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// Invalidate invalidates all list caches by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm.redis == nil {
		return
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Warn("Failed to invalidate list cache", zap.Error(err))
		return
	}
	zap.L().Info("Cache invalidated", zap.Int64("new_version", newVersion))
}

// InvalidateProduct invalidates both the list cache and the product's own entry.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, productID string) {
	if cm.redis == nil {
		return
	}
	cm.Invalidate(ctx)

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Del(bgCtx, ProductCachePrefix+productID).Err(); err != nil {
			zap.L().Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// getCacheVersion retrieves the current cache version, initialising it on
// first use.
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to get cache version: %w", err)
}

func (cm *CacheManager) listCacheKey(version int64) string {
	return fmt.Sprintf("%s%d", ProductListCachePrefix, version)
}
