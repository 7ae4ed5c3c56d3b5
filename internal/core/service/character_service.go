package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
)

// WriteSerializer runs a mutation job. The write queue implements it to run
// all jobs on one goroutine; inlineWriter runs them on the caller's.
type WriteSerializer interface {
	Do(ctx context.Context, job func(ctx context.Context) error) error
}

type inlineWriter struct{}

func (inlineWriter) Do(ctx context.Context, job func(ctx context.Context) error) error {
	return job(ctx)
}

// Option configures a CharacterService.
type Option func(*CharacterService)

// WithWriteSerializer routes every create, update and delete through w.
func WithWriteSerializer(w WriteSerializer) Option {
	return func(s *CharacterService) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithClock overrides the time source used for id generation.
func WithClock(now func() time.Time) Option {
	return func(s *CharacterService) {
		if now != nil {
			s.now = now
		}
	}
}

// CharacterService implements the catalog use cases over a CharacterStore.
// Every call reloads the full collection; nothing is cached between calls.
type CharacterService struct {
	store  ports.CharacterStore
	writer WriteSerializer
	now    func() time.Time
	logger zerolog.Logger
}

func NewCharacterService(store ports.CharacterStore, logger zerolog.Logger, opts ...Option) *CharacterService {
	s := &CharacterService{
		store:  store,
		writer: inlineWriter{},
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCharacters returns the stored collection, optionally filtered by a
// case-insensitive query. The result is never nil.
func (s *CharacterService) ListCharacters(ctx context.Context, input ports.ListCharactersInput) ([]domain.Character, error) {
	chars, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	q := strings.TrimSpace(input.Query)
	out := make([]domain.Character, 0, len(chars))
	for _, c := range chars {
		if q == "" || c.Matches(q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CharacterService) GetCharacter(ctx context.Context, id int64) (*domain.Character, error) {
	chars, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}

	i := domain.IndexOf(chars, id)
	if i < 0 {
		return nil, domain.ErrCharacterNotFound
	}
	c := chars[i]
	return &c, nil
}

// CreateCharacter appends a new character whose id is the current Unix time
// in milliseconds. Two creates within the same millisecond get the same id.
func (s *CharacterService) CreateCharacter(ctx context.Context, input ports.CreateCharacterInput) (*domain.Character, error) {
	c := domain.Character{
		Name:     input.Name,
		RealName: input.RealName,
		Universe: input.Universe,
	}
	if !c.Complete() {
		return nil, domain.ErrMissingFields
	}

	err := s.writer.Do(ctx, func(ctx context.Context) error {
		chars, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		c.ID = s.now().UnixMilli()
		return s.store.Save(ctx, append(chars, c))
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create character")
		return nil, fmt.Errorf("create character: %w", err)
	}

	s.logger.Info().Int64("id", c.ID).Str("name", c.Name).Msg("character created")
	return &c, nil
}

// UpdateCharacter merges the non-empty input fields over the stored record.
func (s *CharacterService) UpdateCharacter(ctx context.Context, id int64, input ports.UpdateCharacterInput) (*domain.Character, error) {
	patch := domain.CharacterPatch{
		Name:     input.Name,
		RealName: input.RealName,
		Universe: input.Universe,
	}

	var updated domain.Character
	err := s.writer.Do(ctx, func(ctx context.Context) error {
		chars, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		i := domain.IndexOf(chars, id)
		if i < 0 {
			return domain.ErrCharacterNotFound
		}
		chars[i] = patch.Apply(chars[i])
		updated = chars[i]
		return s.store.Save(ctx, chars)
	})
	if err != nil {
		return nil, fmt.Errorf("update character %d: %w", id, err)
	}

	s.logger.Info().Int64("id", id).Msg("character updated")
	return &updated, nil
}

// DeleteCharacter removes the first character with id. Nothing is written
// when the id is absent.
func (s *CharacterService) DeleteCharacter(ctx context.Context, id int64) error {
	err := s.writer.Do(ctx, func(ctx context.Context) error {
		chars, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		i := domain.IndexOf(chars, id)
		if i < 0 {
			return domain.ErrCharacterNotFound
		}
		kept := make([]domain.Character, 0, len(chars)-1)
		kept = append(kept, chars[:i]...)
		kept = append(kept, chars[i+1:]...)
		return s.store.Save(ctx, kept)
	})
	if err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}

	s.logger.Info().Int64("id", id).Msg("character deleted")
	return nil
}
