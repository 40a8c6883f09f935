package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

const (
	sessionKeyPrefix = "ticketd:session:"
	walletKeyPrefix  = "ticketd:wallet:"
)

// RedisSessionStore is a Redis implementation of the SessionStore
// interface for scaled-out deployments. Each session lives under its own
// key with a TTL matching the session expiry, plus a per-wallet index set
// backing wallet-wide invalidation.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis session store.
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Put(ctx context.Context, session core.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl)
	pipe.SAdd(ctx, walletKeyPrefix+session.Wallet, session.ID)
	pipe.Expire(ctx, walletKeyPrefix+session.Wallet, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", core.ErrStoreOperation)
	}

	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (core.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return core.Session{}, core.ErrNotFound
		}
		return core.Session{}, fmt.Errorf("get session: %w", core.ErrStoreOperation)
	}

	var session core.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return core.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		if err == core.ErrNotFound {
			return false, nil
		}
		// Best effort: still try to drop the key itself.
		removed, delErr := s.client.Del(ctx, sessionKeyPrefix+sessionID).Result()
		if delErr != nil {
			return false, fmt.Errorf("delete session: %w", core.ErrStoreOperation)
		}
		return removed > 0, nil
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, sessionKeyPrefix+sessionID)
	pipe.SRem(ctx, walletKeyPrefix+session.Wallet, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete session: %w", core.ErrStoreOperation)
	}
	return del.Val() > 0, nil
}

func (s *RedisSessionStore) DeleteByWallet(ctx context.Context, wallet string) (int, error) {
	wallet = core.NormalizeWallet(wallet)
	ids, err := s.client.SMembers(ctx, walletKeyPrefix+wallet).Result()
	if err != nil {
		return 0, fmt.Errorf("list wallet sessions: %w", core.ErrStoreOperation)
	}

	removed := 0
	for _, id := range ids {
		n, err := s.client.Del(ctx, sessionKeyPrefix+id).Result()
		if err != nil {
			return removed, fmt.Errorf("delete session: %w", core.ErrStoreOperation)
		}
		removed += int(n)
	}

	if err := s.client.Del(ctx, walletKeyPrefix+wallet).Err(); err != nil {
		return removed, fmt.Errorf("delete wallet index: %w", core.ErrStoreOperation)
	}
	return removed, nil
}

func (s *RedisSessionStore) All(ctx context.Context) ([]core.Session, error) {
	var sessions []core.Session

	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, fmt.Errorf("get session: %w", core.ErrStoreOperation)
		}

		var session core.Session
		if err := json.Unmarshal(payload, &session); err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", core.ErrStoreOperation)
	}

	return sessions, nil
}
