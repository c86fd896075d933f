package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CatalogTTL = 10 * time.Minute

	KeyFeaturedProducts = "products:featured"
	KeyCategories       = "categories:all"
	keyProductSlug      = "product:slug:"
)

// Cache : cache-aside Redis pour les lectures catalogue. Un cache
// indisponible ne casse jamais une lecture — on retombe sur la base.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get désérialise la valeur cachée dans dest. Renvoie false sur absence ou
// erreur — l'appelant relit la base. Un cache nil est un cache vide.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false
	}
	return true
}

// Set met la valeur en cache. Les erreurs sont loggées, jamais propagées.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Println("⚠️  Erreur écriture cache:", err)
	}
}

func ProductSlugKey(slug string) string {
	return keyProductSlug + slug
}

// InvalidateCatalog purge toutes les entrées catalogue après une mutation
// admin. Best-effort : une purge ratée expire de toute façon avec le TTL.
func (c *Cache) InvalidateCatalog(ctx context.Context) {
	if c == nil {
		return
	}
	keys, err := c.rdb.Keys(ctx, keyProductSlug+"*").Result()
	if err != nil {
		log.Println("⚠️  Erreur scan clés cache:", err)
		keys = nil
	}
	keys = append(keys, KeyFeaturedProducts, KeyCategories)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Println("⚠️  Erreur invalidation cache:", err)
	}
}
