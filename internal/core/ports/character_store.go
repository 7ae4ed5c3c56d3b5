package ports

import (
	"context"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

// CharacterStore persists the whole character collection as one document.
// Load and Save always operate on the full collection; there are no partial
// writes.
type CharacterStore interface {
	Load(ctx context.Context) ([]domain.Character, error)
	Save(ctx context.Context, chars []domain.Character) error
}

// Pinger is implemented by stores that can report whether their backend is
// reachable. Used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
