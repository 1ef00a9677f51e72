package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chore-clash/pkg/config"
	"chore-clash/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Cache wraps the Redis client with the key conventions used by the read
// models: family dashboards, leaderboards and wallet balances.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func New(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{client: client, logger: log}
}

func familyDashboardKey(familyID string) string {
	return fmt.Sprintf("family:%s:dashboard", familyID)
}

func familyLeaderboardKey(familyID string) string {
	return fmt.Sprintf("family:%s:leaderboard", familyID)
}

func walletKey(walletID string) string {
	return fmt.Sprintf("wallet:%s:balance", walletID)
}

// Get loads a cached value into dest; returns redis.Nil on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateFamily drops the family's dashboard and leaderboard entries.
func (c *Cache) InvalidateFamily(familyID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	keys := []string{familyDashboardKey(familyID), familyLeaderboardKey(familyID)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("[CACHE] Failed to invalidate family %s: %v", familyID, err)
		return err
	}
	return nil
}

// InvalidateWallet drops the wallet's cached balance.
func (c *Cache) InvalidateWallet(walletID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, walletKey(walletID)).Err(); err != nil {
		c.logger.Warn("[CACHE] Failed to invalidate wallet %s: %v", walletID, err)
		return err
	}
	return nil
}
