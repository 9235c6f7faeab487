package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"sgspadmin/internal/caching"
)

// TokenBlacklist tracks tokens revoked before their natural expiry.
// Entries are trimmed lazily on lookup; there is no sweeper.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string, now time.Time) (bool, error)
}

// MemoryBlacklist is a process-local TokenBlacklist guarded by a RWMutex.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryBlacklist returns an empty blacklist.
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// a repeated revoke never shortens an existing entry
	if cur, ok := b.entries[token]; !ok || expiresAt.After(cur) {
		b.entries[token] = expiresAt
	}
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, token string, now time.Time) (bool, error) {
	b.mu.RLock()
	exp, ok := b.entries[token]
	b.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if now.Before(exp) {
		return true, nil
	}

	b.mu.Lock()
	// re-check: a concurrent Revoke may have extended the entry
	if cur, ok := b.entries[token]; ok && !now.Before(cur) {
		delete(b.entries, token)
	}
	b.mu.Unlock()
	return false, nil
}

type redisBlacklist struct {
	cache caching.CacheService
	clock func() time.Time
}

// NewRedisBlacklist stores revocations in Redis so every replica sees them.
// Keys hold the expiry in unix milliseconds and carry a matching TTL.
func NewRedisBlacklist(cache caching.CacheService, clock func() time.Time) TokenBlacklist {
	if clock == nil {
		clock = time.Now
	}
	return &redisBlacklist{cache: cache, clock: clock}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

func (b *redisBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	ttl := expiresAt.Sub(b.clock())
	if ttl <= 0 {
		return nil
	}
	// one atomic step so a concurrent shorter revoke cannot win
	if _, err := b.cache.SetIntMax(ctx, blacklistKey(token), expiresAt.UnixMilli(), ttl); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, token string, now time.Time) (bool, error) {
	key := blacklistKey(token)
	raw, found, err := b.cache.GetString(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read revocation: %w", err)
	}
	if !found {
		return false, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("corrupt revocation entry: %w", err)
	}
	if now.Before(time.UnixMilli(ms)) {
		return true, nil
	}
	if err := b.cache.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to evict revocation: %w", err)
	}
	return false, nil
}
