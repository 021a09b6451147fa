package repository

import (
	"database/sql"
	"fmt"
	"time"

	"sentinal-delivery/internal/domain/message"

	"github.com/google/uuid"
)

// MessageRecord represents the messages table as seen by the delivery state
// write path.
type MessageRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationKind   string    `gorm:"type:varchar(32);not null"`
	ContactIdentity    sql.NullString
	IsGatewayContact   bool `gorm:"default:false"`
	GroupID            uuid.NullUUID `gorm:"type:uuid"`
	IsNotesGroup       bool          `gorm:"default:false"`
	DistributionListID uuid.NullUUID `gorm:"type:uuid"`
	Direction          string        `gorm:"type:varchar(16);not null"`
	Type               string        `gorm:"type:varchar(32);not null"`
	ContentsKind       string        `gorm:"type:varchar(32)"`
	State              sql.NullString `gorm:"type:varchar(32);index"`
	IsStatusMessage    bool           `gorm:"default:false"`
	IsRead             bool           `gorm:"default:false"`
	IsDeleted          bool           `gorm:"default:false"`
	Flags              int64          `gorm:"default:0"`
	CreatedAt          time.Time
	PostedAt           sql.NullTime
	ModifiedAt         sql.NullTime
	ReadAt             sql.NullTime
	DeletedAt          sql.NullTime
}

func (MessageRecord) TableName() string {
	return "messages"
}

// ToDomain converts the row into the snapshot the delivery rules evaluate.
func (r MessageRecord) ToDomain() (message.Message, error) {
	kind, err := r.kind()
	if err != nil {
		return message.Message{}, err
	}

	m := message.Message{
		ID:              r.ID,
		Kind:            kind,
		Direction:       message.Direction(r.Direction),
		Type:            message.Type(r.Type),
		ContentsKind:    message.ContentsKind(r.ContentsKind),
		IsStatusMessage: r.IsStatusMessage,
		IsRead:          r.IsRead,
		IsDeleted:       r.IsDeleted,
		Flags:           message.Flags(r.Flags),
		CreatedAt:       r.CreatedAt,
	}
	if r.State.Valid {
		state, err := message.ParseState(r.State.String)
		if err != nil {
			return message.Message{}, err
		}
		m.State = &state
	}
	if r.PostedAt.Valid {
		posted := r.PostedAt.Time
		m.PostedAt = &posted
	}
	if r.ModifiedAt.Valid {
		modified := r.ModifiedAt.Time
		m.ModifiedAt = &modified
	}
	return m, nil
}

func (r MessageRecord) kind() (message.Kind, error) {
	switch r.ConversationKind {
	case message.KindName(message.DirectKind{}):
		return message.DirectKind{Identity: r.ContactIdentity.String, IsGateway: r.IsGatewayContact}, nil
	case message.KindName(message.GroupKind{}):
		return message.GroupKind{GroupID: r.GroupID.UUID, IsNotesGroup: r.IsNotesGroup}, nil
	case message.KindName(message.DistributionListKind{}):
		return message.DistributionListKind{ListID: r.DistributionListID.UUID}, nil
	case message.KindName(message.StatusKind{}):
		return message.StatusKind{}, nil
	}
	return nil, fmt.Errorf("unknown conversation kind %q", r.ConversationKind)
}

// RecordFromDomain builds the row for a new message.
func RecordFromDomain(m message.Message) MessageRecord {
	r := MessageRecord{
		ID:               m.ID,
		ConversationKind: message.KindName(m.Kind),
		Direction:        string(m.Direction),
		Type:             string(m.Type),
		ContentsKind:     string(m.ContentsKind),
		IsStatusMessage:  m.IsStatusMessage,
		IsRead:           m.IsRead,
		IsDeleted:        m.IsDeleted,
		Flags:            int64(m.Flags),
		CreatedAt:        m.CreatedAt,
	}

	switch k := m.Kind.(type) {
	case message.DirectKind:
		r.ContactIdentity = sql.NullString{String: k.Identity, Valid: k.Identity != ""}
		r.IsGatewayContact = k.IsGateway
	case message.GroupKind:
		r.GroupID = uuid.NullUUID{UUID: k.GroupID, Valid: true}
		r.IsNotesGroup = k.IsNotesGroup
	case message.DistributionListKind:
		r.DistributionListID = uuid.NullUUID{UUID: k.ListID, Valid: true}
	}

	if m.State != nil {
		r.State = sql.NullString{String: m.State.String(), Valid: true}
	}
	if m.PostedAt != nil {
		r.PostedAt = sql.NullTime{Time: *m.PostedAt, Valid: true}
	}
	if m.ModifiedAt != nil {
		r.ModifiedAt = sql.NullTime{Time: *m.ModifiedAt, Valid: true}
	}
	return r
}
