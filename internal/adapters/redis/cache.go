// Package redisad decorates a ledger with a read-through slot cache.
// Reads are the hot path of every handler (re-derive, decode, verify), so
// cached slots cut the round trips to the durable gateway; every mutation
// invalidates its address.
package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewledger/internal/adapters/observability"
	"reviewledger/internal/domain"
)

type CachedLedger struct {
	next domain.Ledger
	c    *redis.Client
	ttl  time.Duration
}

func New(next domain.Ledger, addr, pass string, db int, ttl time.Duration) *CachedLedger {
	return &CachedLedger{
		next: next,
		c:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl:  ttl,
	}
}

func key(addr domain.Address) string { return "slot:" + addr.String() }

func (l *CachedLedger) Exists(ctx context.Context, addr domain.Address) (bool, error) {
	return l.next.Exists(ctx, addr)
}

func (l *CachedLedger) Create(ctx context.Context, p domain.CreateParams) error {
	if err := l.next.Create(ctx, p); err != nil {
		return err
	}
	// drop any stale entry from a prior lifetime of this address
	observability.ObserveCache("redis", "del")
	_ = l.c.Del(ctx, key(p.Address)).Err()
	return nil
}

func (l *CachedLedger) Read(ctx context.Context, addr domain.Address) (domain.Slot, error) {
	if v, err := l.c.Get(ctx, key(addr)).Bytes(); err == nil {
		var s domain.Slot
		if uerr := json.Unmarshal(v, &s); uerr == nil {
			observability.ObserveCache("redis", "hit")
			return s, nil
		}
	}
	observability.ObserveCache("redis", "miss")

	s, err := l.next.Read(ctx, addr)
	if err != nil {
		return domain.Slot{}, err
	}
	if b, err := json.Marshal(s); err == nil {
		observability.ObserveCache("redis", "set")
		_ = l.c.Set(ctx, key(addr), b, l.ttl).Err()
	}
	return s, nil
}

func (l *CachedLedger) Write(ctx context.Context, addr domain.Address, data []byte) error {
	if err := l.next.Write(ctx, addr, data); err != nil {
		return err
	}
	observability.ObserveCache("redis", "del")
	_ = l.c.Del(ctx, key(addr)).Err()
	return nil
}
