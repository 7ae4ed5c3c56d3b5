package ports

import (
	"context"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

// CreateCharacterInput carries the fields of a new character.
type CreateCharacterInput struct {
	Name     string
	RealName string
	Universe string
}

// UpdateCharacterInput carries a partial update. Empty fields are ignored.
type UpdateCharacterInput struct {
	Name     string
	RealName string
	Universe string
}

// ListCharactersInput carries the optional search query of the list endpoint.
type ListCharactersInput struct {
	Query string // case-insensitive substring on name, realName or universe
}

// CharacterService defines the catalog use cases.
type CharacterService interface {
	ListCharacters(ctx context.Context, input ListCharactersInput) ([]domain.Character, error)
	GetCharacter(ctx context.Context, id int64) (*domain.Character, error)
	CreateCharacter(ctx context.Context, input CreateCharacterInput) (*domain.Character, error)
	UpdateCharacter(ctx context.Context, id int64, input UpdateCharacterInput) (*domain.Character, error)
	DeleteCharacter(ctx context.Context, id int64) error
}
