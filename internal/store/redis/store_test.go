package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestStore needs a real server; set NETCOMPARE_TEST_REDIS_ADDR to run.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("NETCOMPARE_TEST_REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("NETCOMPARE_TEST_REDIS_ADDR not set, skipping redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s unreachable: %v", addr, err)
	}
	return NewStore(client, time.Minute)
}

func TestKey(t *testing.T) {
	if got := Key("abc:lastSearchAddress"); got != "netcompare:session:abc:lastSearchAddress" {
		t.Errorf("Key() = %q", got)
	}
}

func TestNewStoreDefaultsTTL(t *testing.T) {
	s := NewStore(nil, 0)
	if s.ttl != DefaultSessionTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultSessionTTL)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "test-" + time.Now().Format("150405.000000") + ":lastSearchResults"
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	if _, ok, err := s.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get() before Set = %v, %v", ok, err)
	}
	if err := s.Set(ctx, key, []byte(`{"hasSearched":true}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get(ctx, key)
	if err != nil || !ok || string(got) != `{"hasSearched":true}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}

	ttl, err := s.client.TTL(ctx, Key(key)).Result()
	if err != nil || ttl <= 0 {
		t.Errorf("TTL = %v, %v; want a positive TTL", ttl, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, key); ok {
		t.Error("key still present after Delete")
	}
}
