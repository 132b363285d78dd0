package app

import (
	"context"
	"log"
	"time"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/events"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
)

// Container holds everything main needs to serve requests.
type Container struct {
	DB        *database.DB
	Repo      *repository.Repository
	Services  *service.Service
	Cache     cache.PageCache
	Publisher events.Publisher

	redis *cache.RedisPageCache
}

func App(cfg *config.Config) *Container {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO; posts without images still work when it is down
	var images storage.Storage
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		log.Printf("MinIO недоступен, загрузка изображений отключена: %v", err)
	} else {
		images = minioClient
	}

	// connection NATS
	publisher, err := events.Connect(cfg.NatsURL)
	if err != nil {
		log.Printf("NATS недоступен, события не публикуются: %v", err)
		publisher = events.NopPublisher{}
	}

	// connection Redis
	c := &Container{DB: db, Publisher: publisher}
	redisCache, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Redis недоступен, кэш страниц отключён: %v", err)
	} else if redisCache != nil {
		c.redis = redisCache
		c.Cache = redisCache
	}

	// enabling dependencies
	c.Repo = repository.NewRepository(db.DB)
	c.Services = service.NewService(c.Repo, cfg, images, publisher)

	return c
}

func (c *Container) Close() {
	c.Publisher.Close()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Printf("Ошибка закрытия Redis: %v", err)
		}
	}

	if err := c.DB.CloseDB(); err != nil {
		log.Printf("Ошибка закрытия БД: %v", err)
	}
}
