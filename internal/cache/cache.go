package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"yatube/internal/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

type Page struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type PageCache interface {
	Get(ctx context.Context, key string) (*Page, error)
	Set(ctx context.Context, key string, page *Page, ttl time.Duration) error
}

type RedisPageCache struct {
	client *redis.Client
}

func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{client: client}
}

// Connect returns nil when no address is configured; a nil cache disables caching.
func Connect(ctx context.Context, cfg config.Redis) (*RedisPageCache, error) {
	if cfg.Addr == "" {
		log.Println("REDIS_ADDR не задан, кэш страниц отключён")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	log.Printf("Подключено к Redis: %s", cfg.Addr)
	return NewRedisPageCache(client), nil
}

// Get returns nil, nil on a miss.
func (c *RedisPageCache) Get(ctx context.Context, key string) (*Page, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения кэша: %w", err)
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("повреждённая запись кэша %s: %w", key, err)
	}
	return &page, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, page *Page, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("ошибка сериализации страницы: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи кэша: %w", err)
	}
	return nil
}

func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func Key(r *http.Request) string {
	return keyPrefix + r.URL.RequestURI()
}

// CachePage serves successful GET responses from the cache for ttl.
func CachePage(pages PageCache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pages == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := Key(r)
			page, err := pages.Get(r.Context(), key)
			if err != nil {
				log.Printf("Ошибка кэша: %v", err)
			}
			if page != nil {
				w.Header().Set("Content-Type", page.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(page.Body)
				return
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}

			page = &Page{ContentType: rec.Header().Get("Content-Type"), Body: rec.body.Bytes()}
			if err := pages.Set(r.Context(), key, page, ttl); err != nil {
				log.Printf("Ошибка кэша: %v", err)
			}
		})
	}
}
