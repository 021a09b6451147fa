package repository

import (
	"context"
	"sync"
	"time"

	"sentinal-delivery/internal/domain/message"
	sentinal_errors "sentinal-delivery/pkg/errors"

	"github.com/google/uuid"
)

// MemoryMessageStateRepository keeps messages in process memory. Transactions
// are serialised by a single mutex and rolled back when fn fails.
type MemoryMessageStateRepository struct {
	mu       sync.Mutex
	messages map[uuid.UUID]message.Message
}

func NewMemoryMessageStateRepository() *MemoryMessageStateRepository {
	return &MemoryMessageStateRepository{messages: make(map[uuid.UUID]message.Message)}
}

func (r *MemoryMessageStateRepository) Transaction(ctx context.Context, fn func(repo MessageStateRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[uuid.UUID]message.Message, len(r.messages))
	for k, v := range r.messages {
		snapshot[k] = v
	}
	if err := fn(&memoryTx{store: r}); err != nil {
		r.messages = snapshot
		return err
	}
	return nil
}

func (r *MemoryMessageStateRepository) Create(ctx context.Context, m message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(m)
}

func (r *MemoryMessageStateRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *MemoryMessageStateRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryMessageStateRepository) UpdateState(ctx context.Context, id uuid.UUID, state message.State, modifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateState(id, state, modifiedAt)
}

func (r *MemoryMessageStateRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(id, func(m *message.Message) { m.IsRead = true })
}

func (r *MemoryMessageStateRepository) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(id, func(m *message.Message) { m.IsDeleted = true })
}

func (r *MemoryMessageStateRepository) create(m message.Message) error {
	if _, ok := r.messages[m.ID]; ok {
		return sentinal_errors.ErrAlreadyExists
	}
	r.messages[m.ID] = m
	return nil
}

func (r *MemoryMessageStateRepository) get(id uuid.UUID) (message.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return message.Message{}, sentinal_errors.ErrNotFound
	}
	return m, nil
}

func (r *MemoryMessageStateRepository) updateState(id uuid.UUID, state message.State, modifiedAt time.Time) error {
	return r.update(id, func(m *message.Message) {
		m.State = state.Ptr()
		m.ModifiedAt = &modifiedAt
	})
}

func (r *MemoryMessageStateRepository) update(id uuid.UUID, fn func(m *message.Message)) error {
	m, ok := r.messages[id]
	if !ok {
		return sentinal_errors.ErrNotFound
	}
	fn(&m)
	r.messages[id] = m
	return nil
}

// memoryTx is handed to Transaction callbacks; the store lock is already
// held.
type memoryTx struct {
	store *MemoryMessageStateRepository
}

func (t *memoryTx) Transaction(ctx context.Context, fn func(repo MessageStateRepository) error) error {
	return fn(t)
}

func (t *memoryTx) Create(ctx context.Context, m message.Message) error {
	return t.store.create(m)
}

func (t *memoryTx) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return t.store.get(id)
}

func (t *memoryTx) GetForUpdate(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return t.store.get(id)
}

func (t *memoryTx) UpdateState(ctx context.Context, id uuid.UUID, state message.State, modifiedAt time.Time) error {
	return t.store.updateState(id, state, modifiedAt)
}

func (t *memoryTx) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	return t.store.update(id, func(m *message.Message) { m.IsRead = true })
}

func (t *memoryTx) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	return t.store.update(id, func(m *message.Message) { m.IsDeleted = true })
}
