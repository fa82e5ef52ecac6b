package image

import (
	"context"

	"github.com/DMarby/image-pipeline/internal/cache"
	"github.com/DMarby/image-pipeline/internal/storage"
	"github.com/DMarby/image-pipeline/internal/tracing"
)

// Cache is a cache of source images, keyed by image id
type Cache = cache.Auto

// NewCache instantiates a new cache that loads missing source images from storage
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, storageProvider storage.Provider) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader: func(ctx context.Context, id string) (data []byte, err error) {
			ctx, span := tracer.Start(ctx, "image.Cache.Loader")
			defer span.End()

			return storageProvider.Get(ctx, id)
		},
	}
}
