package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReplaysCachedResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists || string(resp) != "cached" {
		t.Fatalf("expected cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStoreClaimsNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"pending").Result()
	if err != nil || val != "processing" {
		t.Fatalf("expected placeholder claim, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStoreSecondClaimSeesFirst(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "race", nil, time.Minute); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// A concurrent retry must not claim the key a second time.
	exists, resp, err := store.CheckAndSet(ctx, "race", nil, time.Minute)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if !exists {
		t.Fatal("expected second caller to observe the existing claim")
	}
	if string(resp) != "processing" {
		t.Fatalf("resp = %q, want processing placeholder", resp)
	}
}

func TestIdempotencyStoreUpdateReplacesClaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "complete", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := store.Update(ctx, "complete", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "complete", nil, time.Minute)
	if err != nil || !exists {
		t.Fatalf("expected stored response, exists=%v err=%v", exists, err)
	}
	if string(resp) != "done" {
		t.Fatalf("resp = %q, want done", resp)
	}
}
