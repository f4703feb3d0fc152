//go:build integration

package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/csv2sendy/internal/config"
)

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	client, err := ConnectRedis(ctx, config.RedisConfig{Addr: addr, DialTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	s := NewRedisStore(client, 2*time.Second)
	defer s.Close()

	id, err := Create(ctx, s, testEntry(t))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Table.Len() != 1 {
		t.Errorf("Get() table has %d rows, want 1", got.Table.Len())
	}

	ttl, err := client.TTL(ctx, redisKey(id)).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > 2*time.Second {
		t.Errorf("TTL = %v, want within (0, 2s]", ttl)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}
