package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// DefaultRedisPrefix namespaces all keys written by [RedisStore].
const DefaultRedisPrefix = "pairrank:"

// RedisOptions configures a [RedisStore].
type RedisOptions struct {
	// Prefix is prepended to every key. Defaults to DefaultRedisPrefix.
	Prefix string
	// TTL expires sessions that have not been written for this long.
	// Zero keeps sessions forever.
	TTL time.Duration
}

// RedisStore keeps sessions in Redis so several server instances can share
// them. Each session is one string key holding its JSON record; a set holds
// the IDs for listing.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store backed by client. The store takes ownership
// of client and closes it in Close.
func NewRedisStore(client redis.UniversalClient, opts RedisOptions) *RedisStore {
	if opts.Prefix == "" {
		opts.Prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

// DialRedis connects to the Redis server at addr and verifies it responds.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to redis at %s", addr)
	}
	return client, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + "session:" + id }
func (s *RedisStore) indexKey() string     { return s.prefix + "sessions" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := errs.ValidateSessionID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return Decode(data)
}

func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	if err := errs.ValidateSessionID(sess.ID); err != nil {
		return err
	}
	data, err := Encode(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(sess.ID), data, s.ttl)
		p.SAdd(ctx, s.indexKey(), sess.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateSessionID(id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(id))
		p.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// List returns all indexed sessions. IDs whose keys have expired are pruned
// from the index.
func (s *RedisStore) List(ctx context.Context) ([]*Session, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	out := make([]*Session, 0, len(ids))
	var stale []any
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			stale = append(stale, id)
			continue
		}
		out = append(out, sess)
	}
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, s.indexKey(), stale...).Err()
	}
	sortByUpdated(out)
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
