package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/types"
)

const seedPath = "../../configs/filter_options.yaml"

func TestLoadCatalogSeed(t *testing.T) {
	catalog, err := LoadCatalogSeed(seedPath)
	if err != nil {
		t.Fatalf("LoadCatalogSeed failed: %v", err)
	}

	if len(catalog.Levels) == 0 {
		t.Fatalf("no levels loaded")
	}
	if catalog.Levels[0].LevelID == "" || catalog.Levels[0].LevelName == "" {
		t.Fatalf("level fields not mapped: %+v", catalog.Levels[0])
	}
	if len(catalog.Difficulties) != 3 {
		t.Fatalf("got %d difficulties, want 3", len(catalog.Difficulties))
	}
	for _, tag := range catalog.Tags {
		if tag.TagID == "" || tag.TagSource == "" {
			t.Fatalf("tag fields not mapped: %+v", tag)
		}
	}

	// Every stream referenced under a level must have a subject list.
	for level, streams := range catalog.StreamsByLevel {
		for _, stream := range streams {
			if _, ok := catalog.SubjectsByStream[stream.ID]; !ok {
				t.Fatalf("level %s stream %s has no subjects", level, stream.ID)
			}
		}
	}
}

func TestLoadCatalogSeedMissingFile(t *testing.T) {
	if _, err := LoadCatalogSeed("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing seed file")
	}
}

type countingCache struct {
	mu   sync.Mutex
	gets int
	sets int
}

func (c *countingCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return false, nil
}

func (c *countingCache) SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestCatalogServiceLoadsWithoutCache(t *testing.T) {
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewCatalogService(log, nil, seedPath)

	catalog, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if len(catalog.Levels) == 0 {
		t.Fatalf("empty catalog")
	}
}

func TestCatalogServiceWritesThroughCache(t *testing.T) {
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cc := &countingCache{}
	svc := NewCatalogService(log, cc, seedPath)

	var first *types.FilterOptionCatalog
	if first, err = svc.Options(context.Background()); err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if cc.gets != 1 || cc.sets != 1 {
		t.Fatalf("cache traffic gets=%d sets=%d, want 1/1", cc.gets, cc.sets)
	}
	if len(first.Tags) == 0 {
		t.Fatalf("tags missing from loaded catalog")
	}
}
