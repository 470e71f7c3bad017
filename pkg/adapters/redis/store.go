package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces all keys written by the store.
const DefaultPrefix = "turing:"

// noExpiry is the index score of programs without TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.ProgramStore using Redis.
// Each program is a string key; a sorted set indexes names by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration for stored programs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the clock used to score and prune the index.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + "program:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "programs"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Save stores the source and indexes its name.
func (s *Store) Save(ctx context.Context, name string, source []byte) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(s.now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	// 0 means no expiration.
	pipe.Set(ctx, s.key(name), source, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: name})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a source.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Delete removes the program and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}

// List returns the indexed names, pruning expired entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := s.now().Unix()

	// ZREMRANGEBYSCORE key -inf (now
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("(%d", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired programs: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	// ZRANGE orders by score first.
	slices.Sort(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
