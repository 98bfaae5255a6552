// Package store is the persistence gateway: whole-game JSON documents in an
// opaque key-value service. The core never depends on the storage medium
// beyond save persisting a full self-contained document and get returning
// whatever was last saved. Every read passes through the migration pipeline
// before a typed state is handed out.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/skorat-app/skorat-core/internal/domain"
	"github.com/skorat-app/skorat-core/internal/migrate"
)

// GameStore keeps one document per game plus an id index for enumeration.
type GameStore struct {
	rdb *redis.Client
}

func NewGameStore(rdb *redis.Client) *GameStore { return &GameStore{rdb: rdb} }

// Open connects to a redis URL (redis:// or rediss://) and returns a store.
func Open(redisURL string) (*GameStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &GameStore{rdb: rdb}, nil
}

func (s *GameStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Client exposes the underlying connection so sibling stores can share it.
func (s *GameStore) Client() *redis.Client { return s.rdb }

func gameKey(id string) string { return "game:" + strings.TrimSpace(id) }

const gameIndexKey = "game:index"

// Save persists the full document and indexes its id.
func (s *GameStore) Save(ctx context.Context, g *domain.GameState) error {
	if g == nil || strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, gameKey(g.ID), raw, 0)
	pipe.SAdd(ctx, gameIndexKey, g.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// Get loads one game, running the raw document through the migration
// pipeline. A missing id returns (nil, nil).
func (s *GameStore) Get(ctx context.Context, id string) (*domain.GameState, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return migrate.Decode(raw)
}

// GetRaw returns the stored document without migration, for diagnostics.
func (s *GameStore) GetRaw(ctx context.Context, id string) (map[string]any, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse stored game %s: %w", id, err)
	}
	return doc, nil
}

// GetAll returns every stored game, migrated, most recently played first.
// Entries that can no longer be parsed are skipped rather than failing the
// whole listing.
func (s *GameStore) GetAll(ctx context.Context) ([]*domain.GameState, error) {
	ids, err := s.rdb.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GameState, 0, len(ids))
	for _, id := range ids {
		g, gerr := s.Get(ctx, id)
		if gerr != nil || g == nil {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastPlayed > out[j].LastPlayed })
	return out, nil
}

// Remove deletes one game document and its index entry.
func (s *GameStore) Remove(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gameIndexKey, id)
	_, err := pipe.Exec(ctx)
	return err
}

// ClearAll removes every stored game.
func (s *GameStore) ClearAll(ctx context.Context) error {
	ids, err := s.rdb.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, gameKey(id))
	}
	pipe.Del(ctx, gameIndexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// ReplaceAll swaps the whole collection in one pipeline: used by import,
// which is all-or-nothing by contract.
func (s *GameStore) ReplaceAll(ctx context.Context, games []*domain.GameState) error {
	ids, err := s.rdb.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return err
	}
	docs := make(map[string][]byte, len(games))
	for _, g := range games {
		raw, merr := json.Marshal(g)
		if merr != nil {
			return merr
		}
		docs[g.ID] = raw
	}

	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, gameKey(id))
	}
	pipe.Del(ctx, gameIndexKey)
	for id, raw := range docs {
		pipe.Set(ctx, gameKey(id), raw, 0)
		pipe.SAdd(ctx, gameIndexKey, id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// ParseRedisURL extracts client options from a redis URL.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
