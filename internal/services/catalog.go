package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/studykit/studylib-backend/internal/clients/redis"
	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/types"
)

const (
	catalogCacheKey = "filter-option-catalog"
	catalogCacheTTL = 10 * time.Minute
)

// CatalogService serves the static filter-option catalog (levels,
// streams-by-level, subjects-by-stream, difficulties, types, tags). The
// catalog is seeded from a YAML file and cached in redis; concurrent
// cache misses collapse into one load.
type CatalogService interface {
	Options(ctx context.Context) (*types.FilterOptionCatalog, error)
}

type catalogService struct {
	log      *logger.Logger
	cache    redis.Cache
	seedPath string
	group    singleflight.Group
}

func NewCatalogService(baseLog *logger.Logger, cache redis.Cache, seedPath string) CatalogService {
	return &catalogService{
		log:      baseLog.With("service", "CatalogService"),
		cache:    cache,
		seedPath: seedPath,
	}
}

func (s *catalogService) Options(ctx context.Context) (*types.FilterOptionCatalog, error) {
	if s.cache != nil {
		var cached types.FilterOptionCatalog
		hit, err := s.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err != nil {
			s.log.Warn("catalog cache read failed", "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	v, err, _ := s.group.Do(catalogCacheKey, func() (interface{}, error) {
		catalog, err := LoadCatalogSeed(s.seedPath)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, catalogCacheKey, catalog, catalogCacheTTL); err != nil {
				s.log.Warn("catalog cache write failed", "error", err)
			}
		}
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.FilterOptionCatalog), nil
}

func LoadCatalogSeed(path string) (*types.FilterOptionCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	var catalog types.FilterOptionCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	return &catalog, nil
}
