package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sentinal-delivery/internal/domain/message"
)

// MessageStateRepository is the message store write path for delivery state.
// Transaction runs fn against a repository bound to a single database
// transaction so a read-check-write sequence is atomic.
type MessageStateRepository interface {
	Transaction(ctx context.Context, fn func(repo MessageStateRepository) error) error

	Create(ctx context.Context, m message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (message.Message, error)

	UpdateState(ctx context.Context, id uuid.UUID, state message.State, modifiedAt time.Time) error
	MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error
	MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
}
