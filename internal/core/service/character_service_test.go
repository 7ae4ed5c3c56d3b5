package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubStore struct {
	chars   []domain.Character
	loadErr error
	saveErr error
	saves   int
}

func (s *stubStore) Load(_ context.Context) ([]domain.Character, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	// Hand out a copy, like a real store decoding a fresh document.
	out := make([]domain.Character, len(s.chars))
	copy(out, s.chars)
	return out, nil
}

func (s *stubStore) Save(_ context.Context, chars []domain.Character) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.chars = make([]domain.Character, len(chars))
	copy(s.chars, chars)
	return nil
}

type countingWriter struct {
	calls int
}

func (w *countingWriter) Do(ctx context.Context, job func(ctx context.Context) error) error {
	w.calls++
	return job(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func seeded() *stubStore {
	return &stubStore{chars: []domain.Character{
		{ID: 1, Name: "Bruce Wayne", RealName: "Bruce Wayne", Universe: "DC"},
		{ID: 2, Name: "Spider-Man", RealName: "Peter Parker", Universe: "Marvel"},
		{ID: 3, Name: "Wonder Woman", RealName: "Diana Prince", Universe: "DC"},
	}}
}

// ---------------------------------------------------------------------------
// ListCharacters tests
// ---------------------------------------------------------------------------

func TestCharacterService_List_ReturnsAll(t *testing.T) {
	svc := NewCharacterService(seeded(), discardLogger)

	got, err := svc.ListCharacters(context.Background(), ports.ListCharactersInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(got))
	}
}

func TestCharacterService_List_EmptyStoreIsNotNil(t *testing.T) {
	svc := NewCharacterService(&stubStore{}, discardLogger)

	got, err := svc.ListCharacters(context.Background(), ports.ListCharactersInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestCharacterService_List_Query(t *testing.T) {
	svc := NewCharacterService(seeded(), discardLogger)

	cases := []struct {
		query string
		want  int
	}{
		{"dc", 2},
		{"PARKER", 1},
		{"wonder", 1},
		{"  ", 3},
		{"krypton", 0},
	}
	for _, tc := range cases {
		got, err := svc.ListCharacters(context.Background(), ports.ListCharactersInput{Query: tc.query})
		if err != nil {
			t.Fatalf("query=%q: unexpected error: %v", tc.query, err)
		}
		if len(got) != tc.want {
			t.Errorf("query=%q: expected %d results, got %d", tc.query, tc.want, len(got))
		}
	}
}

func TestCharacterService_List_StoreError(t *testing.T) {
	storeErr := errors.New("disk on fire")
	svc := NewCharacterService(&stubStore{loadErr: storeErr}, discardLogger)

	_, err := svc.ListCharacters(context.Background(), ports.ListCharactersInput{})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetCharacter tests
// ---------------------------------------------------------------------------

func TestCharacterService_Get_Found(t *testing.T) {
	svc := NewCharacterService(seeded(), discardLogger)

	c, err := svc.GetCharacter(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.RealName != "Peter Parker" {
		t.Errorf("expected Peter Parker, got %q", c.RealName)
	}
}

func TestCharacterService_Get_NotFound(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	_, err := svc.GetCharacter(context.Background(), 99)
	if !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("get must not write, got %d saves", store.saves)
	}
}

// ---------------------------------------------------------------------------
// CreateCharacter tests
// ---------------------------------------------------------------------------

func TestCharacterService_Create_Success(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger, WithClock(fixedClock(1700000000123)))

	c, err := svc.CreateCharacter(context.Background(), ports.CreateCharacterInput{
		Name: "Clark Kent", RealName: "Kal-El", Universe: "DC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 1700000000123 {
		t.Errorf("expected id from clock, got %d", c.ID)
	}
	if len(store.chars) != 4 {
		t.Fatalf("expected 4 stored characters, got %d", len(store.chars))
	}
	last := store.chars[3]
	if last != *c {
		t.Errorf("stored record %+v differs from returned %+v", last, *c)
	}
}

func TestCharacterService_Create_MissingFields(t *testing.T) {
	inputs := []ports.CreateCharacterInput{
		{RealName: "Kal-El", Universe: "DC"},
		{Name: "Clark Kent", Universe: "DC"},
		{Name: "Clark Kent", RealName: "Kal-El"},
		{},
	}

	for _, in := range inputs {
		store := seeded()
		svc := NewCharacterService(store, discardLogger)

		_, err := svc.CreateCharacter(context.Background(), in)
		if !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("input %+v: expected ErrMissingFields, got %v", in, err)
		}
		if store.saves != 0 || len(store.chars) != 3 {
			t.Errorf("input %+v: collection must be unchanged", in)
		}
	}
}

func TestCharacterService_Create_SaveError(t *testing.T) {
	store := seeded()
	store.saveErr = errors.New("read-only filesystem")
	svc := NewCharacterService(store, discardLogger)

	_, err := svc.CreateCharacter(context.Background(), ports.CreateCharacterInput{
		Name: "Clark Kent", RealName: "Kal-El", Universe: "DC",
	})
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

func TestCharacterService_Create_UsesWriteSerializer(t *testing.T) {
	w := &countingWriter{}
	svc := NewCharacterService(seeded(), discardLogger, WithWriteSerializer(w))

	_, _ = svc.CreateCharacter(context.Background(), ports.CreateCharacterInput{
		Name: "Clark Kent", RealName: "Kal-El", Universe: "DC",
	})
	_, _ = svc.UpdateCharacter(context.Background(), 1, ports.UpdateCharacterInput{Name: "Batman"})
	_ = svc.DeleteCharacter(context.Background(), 2)

	if w.calls != 3 {
		t.Errorf("expected 3 serialized writes, got %d", w.calls)
	}
}

// ---------------------------------------------------------------------------
// UpdateCharacter tests
// ---------------------------------------------------------------------------

func TestCharacterService_Update_PartialMerge(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	c, err := svc.UpdateCharacter(context.Background(), 1, ports.UpdateCharacterInput{Name: "Batman"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Character{ID: 1, Name: "Batman", RealName: "Bruce Wayne", Universe: "DC"}
	if *c != want {
		t.Errorf("expected %+v, got %+v", want, *c)
	}
	if store.chars[0] != want {
		t.Errorf("stored record not merged: %+v", store.chars[0])
	}
}

func TestCharacterService_Update_EmptyStringsAreIgnored(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	c, err := svc.UpdateCharacter(context.Background(), 2, ports.UpdateCharacterInput{Name: "", RealName: "", Universe: "Marvel Comics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Spider-Man" || c.RealName != "Peter Parker" {
		t.Errorf("empty fields must not overwrite: %+v", *c)
	}
	if c.Universe != "Marvel Comics" {
		t.Errorf("expected universe updated, got %q", c.Universe)
	}
}

func TestCharacterService_Update_NotFound(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	_, err := svc.UpdateCharacter(context.Background(), 42, ports.UpdateCharacterInput{Name: "Nobody"})
	if !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("not-found update must not write")
	}
}

// ---------------------------------------------------------------------------
// DeleteCharacter tests
// ---------------------------------------------------------------------------

func TestCharacterService_Delete_RemovesExactlyOne(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	if err := svc.DeleteCharacter(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.chars) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(store.chars))
	}
	if store.chars[0].ID != 1 || store.chars[1].ID != 3 {
		t.Errorf("unexpected survivors: %+v", store.chars)
	}
}

func TestCharacterService_Delete_NotFound(t *testing.T) {
	store := seeded()
	svc := NewCharacterService(store, discardLogger)

	err := svc.DeleteCharacter(context.Background(), 404)
	if !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if store.saves != 0 || len(store.chars) != 3 {
		t.Errorf("collection must be unchanged")
	}
}

// ---------------------------------------------------------------------------
// Round trip
// ---------------------------------------------------------------------------

func TestCharacterService_Lifecycle(t *testing.T) {
	store := &stubStore{}
	svc := NewCharacterService(store, discardLogger, WithClock(fixedClock(1000)))
	ctx := context.Background()

	created, err := svc.CreateCharacter(ctx, ports.CreateCharacterInput{Name: "Clark Kent", RealName: "Kal-El", Universe: "DC"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetCharacter(ctx, created.ID)
	if err != nil || *got != *created {
		t.Fatalf("get after create: %+v, %v", got, err)
	}

	updated, err := svc.UpdateCharacter(ctx, created.ID, ports.UpdateCharacterInput{Universe: "DC Comics"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Clark Kent" || updated.RealName != "Kal-El" || updated.Universe != "DC Comics" {
		t.Errorf("unexpected merge result: %+v", *updated)
	}

	list, _ := svc.ListCharacters(ctx, ports.ListCharactersInput{})
	if len(list) != 1 || list[0] != *updated {
		t.Errorf("list must reflect the update: %+v", list)
	}

	if err := svc.DeleteCharacter(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetCharacter(ctx, created.ID); !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
