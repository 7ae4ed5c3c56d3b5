package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
	"github.com/charactercatalog/catalog-api/internal/core/service"
)

// slowStore widens the window between Load and Save so that unserialized
// writers would overwrite each other.
type slowStore struct {
	mu    sync.Mutex
	chars []domain.Character
}

func (s *slowStore) Load(_ context.Context) ([]domain.Character, error) {
	s.mu.Lock()
	out := make([]domain.Character, len(s.chars))
	copy(out, s.chars)
	s.mu.Unlock()
	time.Sleep(time.Millisecond)
	return out, nil
}

func (s *slowStore) Save(_ context.Context, chars []domain.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chars = append([]domain.Character(nil), chars...)
	return nil
}

func TestWriteQueue_RunsJobAndReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewWriteQueue(4, zerolog.Nop())
	q.Start(ctx)

	ran := false
	require.NoError(t, q.Do(ctx, func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	jobErr := errors.New("boom")
	assert.ErrorIs(t, q.Do(ctx, func(context.Context) error { return jobErr }), jobErr)
}

func TestWriteQueue_ClosedAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewWriteQueue(1, zerolog.Nop())
	q.Start(ctx)
	cancel()

	<-q.stopped
	err := q.Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWriteQueue_StopWaitsForRunningJob(t *testing.T) {
	q := NewWriteQueue(1, zerolog.Nop())
	q.Start(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- q.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.NoError(t, <-result)
	assert.ErrorIs(t, q.Do(context.Background(), func(context.Context) error { return nil }), ErrQueueClosed)
}

func TestWriteQueue_StopBeforeStart(t *testing.T) {
	q := NewWriteQueue(1, zerolog.Nop())
	q.Stop()
}

func TestWriteQueue_CallerContextCancelled(t *testing.T) {
	// Never started: the job sits in the buffer until the caller gives up.
	q := NewWriteQueue(1, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWriteQueue_SerializesConcurrentCreates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewWriteQueue(8, zerolog.Nop())
	q.Start(ctx)

	store := &slowStore{}
	var (
		mu   sync.Mutex
		next int64
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next++
		return time.UnixMilli(next)
	}
	svc := service.NewCharacterService(store, zerolog.Nop(),
		service.WithWriteSerializer(q), service.WithClock(clock))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateCharacter(ctx, ports.CreateCharacterInput{
				Name: "Clark Kent", RealName: "Kal-El", Universe: "DC",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	chars, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, chars, writers)
}
