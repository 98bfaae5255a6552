package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// ProfileStore keeps the cross-game player identities.
type ProfileStore struct {
	rdb *redis.Client
}

func NewProfileStore(rdb *redis.Client) *ProfileStore { return &ProfileStore{rdb: rdb} }

func profileKey(id string) string { return "profile:" + strings.TrimSpace(id) }

const profileIndexKey = "profile:index"

const maxProfileField = 100

// Save validates and persists one profile.
func (s *ProfileStore) Save(ctx context.Context, p domain.UserProfile) error {
	id := strings.TrimSpace(p.ID)
	name := strings.TrimSpace(p.Name)
	switch {
	case id == "":
		return fmt.Errorf("profile id is required")
	case len(id) > maxProfileField:
		return fmt.Errorf("profile id is too long (max %d characters)", maxProfileField)
	case name == "":
		return fmt.Errorf("profile name is required")
	case len(name) > maxProfileField:
		return fmt.Errorf("profile name is too long (max %d characters)", maxProfileField)
	}

	raw, err := json.Marshal(domain.UserProfile{ID: id, Name: name})
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, profileKey(id), raw, 0)
	pipe.SAdd(ctx, profileIndexKey, id)
	_, err = pipe.Exec(ctx)
	return err
}

// Get returns one profile, or (zero, false) when unknown.
func (s *ProfileStore) Get(ctx context.Context, id string) (domain.UserProfile, bool, error) {
	raw, err := s.rdb.Get(ctx, profileKey(id)).Bytes()
	if err == redis.Nil {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	var p domain.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.UserProfile{}, false, err
	}
	return p, true, nil
}

// GetAll returns every stored profile.
func (s *ProfileStore) GetAll(ctx context.Context) ([]domain.UserProfile, error) {
	ids, err := s.rdb.SMembers(ctx, profileIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserProfile, 0, len(ids))
	for _, id := range ids {
		p, ok, gerr := s.Get(ctx, id)
		if gerr != nil || !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FindByName matches case-insensitively on the trimmed name, the way the
// new-game autocomplete resolves typed names to existing identities.
func (s *ProfileStore) FindByName(ctx context.Context, name string) (domain.UserProfile, bool, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range all {
		if strings.ToLower(strings.TrimSpace(p.Name)) == want {
			return p, true, nil
		}
	}
	return domain.UserProfile{}, false, nil
}

// ReplaceAll swaps the whole profile collection, used by import.
func (s *ProfileStore) ReplaceAll(ctx context.Context, profiles []domain.UserProfile) error {
	ids, err := s.rdb.SMembers(ctx, profileIndexKey).Result()
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, profileKey(id))
	}
	pipe.Del(ctx, profileIndexKey)
	for _, p := range profiles {
		raw, merr := json.Marshal(p)
		if merr != nil {
			return merr
		}
		pipe.Set(ctx, profileKey(p.ID), raw, 0)
		pipe.SAdd(ctx, profileIndexKey, p.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}
