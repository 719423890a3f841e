package search

import (
	"github.com/go-redis/redis/v8"
	"github.com/skillanthropy/skillanthropy-api/internal/config"
)

// NewEngineFromConfig returns the Elasticsearch engine behind a redis result
// cache, or Disabled when no endpoint is configured. The returned func
// releases the redis client.
func NewEngineFromConfig(cfg *config.Config) (Engine, func() error, error) {
	if !cfg.SearchEnabled() {
		return Disabled{}, func() error { return nil }, nil
	}

	elastic, err := NewElasticEngine(ElasticConfig{
		Addresses:   []string{cfg.ElasticURL},
		Username:    cfg.ElasticUsername,
		Password:    cfg.ElasticPassword,
		IndexPrefix: cfg.SearchIndexPrefix,
	})
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	return NewCachedEngine(elastic, NewRedisCache(client), cfg.SearchCacheTTL), client.Close, nil
}
