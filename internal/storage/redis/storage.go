package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// The document is stored as one JSON string; updates use WATCH/MULTI so
// writers in different processes cannot overwrite each other.
type Storage struct {
	client *redis.Client
	cfg    Config
	key    string
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.MaxUpdateRetries <= 0 {
		cfg.MaxUpdateRetries = DefaultConfig().MaxUpdateRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		key:    documentKey(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.Document, error) {
	return s.get(ctx, s.client)
}

func (s *Storage) Save(ctx context.Context, doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, fn storage.UpdateFunc) error {
	txf := func(tx *redis.Tx) error {
		doc, err := s.get(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}

		data, err := storage.Encode(doc)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}
		return err
	}

	for range s.cfg.MaxUpdateRetries {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return model.ErrConflict
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// get reads and decodes the document through either the client or a transaction
func (s *Storage) get(ctx context.Context, c getter) (*model.Document, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewDocument(), nil
		}
		return nil, err
	}
	return storage.Decode(data)
}
