package repository

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/config"
)

// Repository 通过 REST 接口访问排班后端，并使用 redis 缓存排班视图和提示信息
type Repository struct {
	cfg         *config.Config
	httpClient  *http.Client
	redisClient *redis.Client
}

func NewRepository(cfg *config.Config, httpClient *http.Client, rdb *redis.Client) *Repository {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Repository{
		cfg:         cfg,
		httpClient:  httpClient,
		redisClient: rdb,
	}
}
