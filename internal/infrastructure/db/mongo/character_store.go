package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

const (
	collectionCatalog = "catalog"
	documentID        = "characters"
)

// catalogDocument is the single document holding the whole collection.
type catalogDocument struct {
	ID    string             `bson:"_id"`
	Items []domain.Character `bson:"items"`
}

// CharacterStore keeps the collection inside one Mongo document and replaces
// that document on every Save.
type CharacterStore struct {
	col *mongo.Collection
}

func NewCharacterStore(db *mongo.Database) *CharacterStore {
	return &CharacterStore{col: db.Collection(collectionCatalog)}
}

// Load returns the stored items. A missing document is an empty collection.
func (s *CharacterStore) Load(ctx context.Context) ([]domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc catalogDocument
	err := s.col.FindOne(ctx, bson.M{"_id": documentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []domain.Character{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog document: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []domain.Character{}
	}
	return doc.Items, nil
}

// Save upserts the catalog document with the full collection.
func (s *CharacterStore) Save(ctx context.Context, chars []domain.Character) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if chars == nil {
		chars = []domain.Character{}
	}
	doc := catalogDocument{ID: documentID, Items: chars}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": documentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace catalog document: %w", err)
	}
	return nil
}

// Ping runs the server ping command against the store's database.
func (s *CharacterStore) Ping(ctx context.Context) error {
	return s.col.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client the store was opened with.
func (s *CharacterStore) Close(ctx context.Context) error {
	return s.col.Database().Client().Disconnect(ctx)
}
