package repository

import (
	"github.com/BloggingApp/social-service/internal/repository/postgres"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Postgres *postgres.PostgresRepository
	Redis    *redisrepo.RedisRepository
}

func New(db postgres.DB, rdb redis.Cmdable) *Repository {
	return &Repository{
		Postgres: postgres.New(db),
		Redis:    redisrepo.New(rdb),
	}
}
