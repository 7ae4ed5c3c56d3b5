package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

const defaultKey = "characters"

// CharacterStore keeps the whole collection as one JSON string under a
// single key. Save is a plain SET, so concurrent writers are last-write-wins.
type CharacterStore struct {
	client *redis.Client
	key    string
}

func NewCharacterStore(client *redis.Client, key string) *CharacterStore {
	if key == "" {
		key = defaultKey
	}
	return &CharacterStore{client: client, key: key}
}

// Load fetches and decodes the collection. A missing key is an empty collection.
func (s *CharacterStore) Load(ctx context.Context) ([]domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Character{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	chars := []domain.Character{}
	if err := json.Unmarshal(data, &chars); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if chars == nil {
		chars = []domain.Character{}
	}
	return chars, nil
}

// Save overwrites the key with the full collection. No expiry is set.
func (s *CharacterStore) Save(ctx context.Context, chars []domain.Character) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if chars == nil {
		chars = []domain.Character{}
	}
	data, err := json.MarshalIndent(chars, "", "  ")
	if err != nil {
		return fmt.Errorf("encode characters: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *CharacterStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *CharacterStore) Close() error {
	return s.client.Close()
}
