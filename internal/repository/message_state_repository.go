package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sentinal-delivery/internal/domain/message"
	sentinal_errors "sentinal-delivery/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresMessageStateRepository struct {
	db *gorm.DB
}

func NewMessageStateRepository(db *gorm.DB) MessageStateRepository {
	return &PostgresMessageStateRepository{db: db}
}

func (r *PostgresMessageStateRepository) Transaction(ctx context.Context, fn func(repo MessageStateRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresMessageStateRepository{db: tx})
	})
}

func (r *PostgresMessageStateRepository) Create(ctx context.Context, m message.Message) error {
	record := RecordFromDomain(m)
	res := r.db.WithContext(ctx).Create(&record)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) || isUniqueViolation(res.Error) {
			return sentinal_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageStateRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *PostgresMessageStateRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostgresMessageStateRepository) get(db *gorm.DB, id uuid.UUID) (message.Message, error) {
	var record MessageRecord
	err := db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, sentinal_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return record.ToDomain()
}

func (r *PostgresMessageStateRepository) UpdateState(ctx context.Context, id uuid.UUID, state message.State, modifiedAt time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"state":       state.String(),
		"modified_at": modifiedAt,
	})
}

func (r *PostgresMessageStateRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"is_read": true,
		"read_at": sql.NullTime{Time: readAt, Valid: true},
	})
}

func (r *PostgresMessageStateRepository) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": sql.NullTime{Time: deletedAt, Valid: true},
	})
}

func (r *PostgresMessageStateRepository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&MessageRecord{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sentinal_errors.ErrNotFound
	}
	return nil
}
