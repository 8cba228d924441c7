package service

import (
	"context"
	"time"

	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/pkg/generator"

	"github.com/patrickmn/go-cache"
)

// ICatalogService lists what the generation backend can produce. Lookups are
// cached; node lists are dropped whenever nodes are generated.
type ICatalogService interface {
	ListSchemes(ctx context.Context) ([]string, error)
	ListProperties(ctx context.Context, scheme string) ([]string, error)
	ListChips(ctx context.Context, scheme, property string) ([]string, error)
	ListNodes(ctx context.Context) ([]string, error)
	Invalidate()
}

type catalogService struct {
	client generator.Client
	cache  *cache.Cache
	logger logger.ILogger
}

func NewCatalogService(client generator.Client, ttl time.Duration, logger logger.ILogger) ICatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &catalogService{
		client: client,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (s *catalogService) ListSchemes(ctx context.Context) ([]string, error) {
	return s.cached(ctx, "schemes", s.client.ListSchemes)
}

func (s *catalogService) ListProperties(ctx context.Context, scheme string) ([]string, error) {
	return s.cached(ctx, "properties:"+scheme, func(ctx context.Context) ([]string, error) {
		return s.client.ListProperties(ctx, scheme)
	})
}

func (s *catalogService) ListChips(ctx context.Context, scheme, property string) ([]string, error) {
	return s.cached(ctx, "chips:"+scheme+"\x00"+property, func(ctx context.Context) ([]string, error) {
		return s.client.ListChips(ctx, scheme, property)
	})
}

func (s *catalogService) ListNodes(ctx context.Context) ([]string, error) {
	return s.cached(ctx, "nodes", s.client.ListNodes)
}

func (s *catalogService) Invalidate() {
	s.cache.Flush()
}

func (s *catalogService) cached(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	if x, found := s.cache.Get(key); found {
		return append([]string(nil), x.([]string)...), nil
	}

	items, err := load(ctx)
	if err != nil {
		s.logger.Error("CatalogService", "Catalog lookup failed", map[string]interface{}{"key": key, "error": err})
		return nil, apperror.Backend("catalog lookup failed", err)
	}
	if items == nil {
		items = []string{}
	}

	s.cache.Set(key, items, cache.DefaultExpiration)
	return append([]string(nil), items...), nil
}
