package redis

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/config"
)

func configWithURL(url string) config.RedisConfig {
	return config.RedisConfig{
		URL:          url,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
