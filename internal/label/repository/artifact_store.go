package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultArtifactTTL 预览结果缓存时长
const DefaultArtifactTTL = 30 * time.Minute

// ErrArtifactNotFound 批次不存在或已过期
var ErrArtifactNotFound = errors.New("label batch not found or expired")

// ArtifactStore keeps a generated batch long enough to download its files.
// It is a cache, not a record of issued labels.
type ArtifactStore interface {
	Put(ctx context.Context, batch *entity.Batch) (string, error)
	Get(ctx context.Context, id string) (*entity.Batch, error)
}

func newBatchID() string {
	return uuid.New().String()
}

// MemoryArtifactStore 进程内缓存
type MemoryArtifactStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	batch     *entity.Batch
	expiresAt time.Time
}

// NewMemoryArtifactStore ttl <= 0 means DefaultArtifactTTL.
func NewMemoryArtifactStore(ttl time.Duration) *MemoryArtifactStore {
	if ttl <= 0 {
		ttl = DefaultArtifactTTL
	}
	return &MemoryArtifactStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Put stores batch under a new id; expired entries are swept on the way.
func (s *MemoryArtifactStore) Put(ctx context.Context, batch *entity.Batch) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	id := newBatchID()
	batch.ID = id
	s.entries[id] = memoryEntry{batch: batch, expiresAt: now.Add(s.ttl)}
	return id, nil
}

// Get 取回批次
func (s *MemoryArtifactStore) Get(ctx context.Context, id string) (*entity.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrArtifactNotFound
	}
	return e.batch, nil
}

// RedisArtifactStore Redis缓存, key: label:batch:{id}:{meta|png|xlsx}
type RedisArtifactStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisArtifactStore 创建Redis缓存
func NewRedisArtifactStore(rdb *redis.Client, ttl time.Duration) *RedisArtifactStore {
	if ttl <= 0 {
		ttl = DefaultArtifactTTL
	}
	return &RedisArtifactStore{rdb: rdb, ttl: ttl}
}

func batchKey(id, part string) string {
	return fmt.Sprintf("label:batch:%s:%s", id, part)
}

// Put writes the three parts in one pipeline so they expire together.
func (s *RedisArtifactStore) Put(ctx context.Context, batch *entity.Batch) (string, error) {
	id := newBatchID()
	batch.ID = id
	meta, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("marshal batch meta: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, batchKey(id, "meta"), meta, s.ttl)
	pipe.Set(ctx, batchKey(id, "png"), batch.PNG, s.ttl)
	pipe.Set(ctx, batchKey(id, "xlsx"), batch.XLSX, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store batch %s: %w", id, err)
	}
	return id, nil
}

// Get 取回批次
func (s *RedisArtifactStore) Get(ctx context.Context, id string) (*entity.Batch, error) {
	vals, err := s.rdb.MGet(ctx, batchKey(id, "meta"), batchKey(id, "png"), batchKey(id, "xlsx")).Result()
	if err != nil {
		return nil, fmt.Errorf("load batch %s: %w", id, err)
	}
	parts := make([][]byte, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			return nil, ErrArtifactNotFound
		}
		parts[i] = []byte(str)
	}

	var batch entity.Batch
	if err := json.Unmarshal(parts[0], &batch); err != nil {
		return nil, fmt.Errorf("decode batch meta: %w", err)
	}
	batch.PNG = parts[1]
	batch.XLSX = parts[2]
	return &batch, nil
}
