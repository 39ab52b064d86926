package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
)

func TestSetNXOnlyFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	client := &Client{cmds: fake}
	key := client.IdempotencyKey("waiter-1|POST|/api/v1/orders", "abc")

	if _, err := client.Get(ctx, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("unused key should report redis.Nil, got %v", err)
	}

	ok, err := client.SetNX(ctx, key, "pending", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first write should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, key, "other", time.Minute)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if ok {
		t.Fatal("second writer must not overwrite the stored record")
	}

	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "pending" {
		t.Fatalf("expected the first record, got %q", got)
	}
	if fake.ttls[key] != time.Minute {
		t.Fatalf("ttl not passed through: %s", fake.ttls[key])
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	ctx := context.Background()
	client := &Client{}

	if err := client.Ping(ctx); !errors.Is(err, errNotConnected) {
		t.Fatalf("ping: expected errNotConnected, got %v", err)
	}
	if _, err := client.Get(ctx, "k"); !errors.Is(err, errNotConnected) {
		t.Fatalf("get: expected errNotConnected, got %v", err)
	}
	if _, err := client.SetNX(ctx, "k", "v", time.Second); !errors.Is(err, errNotConnected) {
		t.Fatalf("setnx: expected errNotConnected, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on an unconnected client should be a no-op: %v", err)
	}
}

func TestIdempotencyKey(t *testing.T) {
	client := &Client{}
	cases := map[string][2]string{
		"rms:idempotency:scope:id": {"scope", "id"},
		"rms:idempotency:id":       {"", "id"},
		"rms:idempotency:scope":    {" scope ", "  "},
	}
	for want, parts := range cases {
		if got := client.IdempotencyKey(parts[0], parts[1]); got != want {
			t.Fatalf("IdempotencyKey(%q, %q) = %q, want %q", parts[0], parts[1], got, want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected an error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("address config: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache:6380/3", DB: 5, ReadTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("url config: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" {
		t.Fatalf("url fields not parsed: %+v", opts)
	}
	if opts.DB != 3 {
		t.Fatalf("db from the url should win, got %d", opts.DB)
	}
	if opts.ReadTimeout != 2*time.Second {
		t.Fatalf("unset url fields should fall back to config, got %s", opts.ReadTimeout)
	}

	if _, err := optionsFromConfig(config.RedisConfig{URL: "://bad"}); err == nil {
		t.Fatal("expected a parse error")
	}
}

type fakeCommands struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := f.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}
