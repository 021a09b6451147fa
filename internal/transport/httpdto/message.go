package httpdto

import (
	"time"

	"sentinal-delivery/internal/domain/message"
	sentinal_errors "sentinal-delivery/pkg/errors"

	"github.com/google/uuid"
)

type CreateMessageRequest struct {
	ConversationKind   string     `json:"conversation_kind" binding:"required"`
	ContactIdentity    string     `json:"contact_identity"`
	IsGateway          bool       `json:"is_gateway"`
	GroupID            string     `json:"group_id"`
	IsNotesGroup       bool       `json:"is_notes_group"`
	DistributionListID string     `json:"distribution_list_id"`
	Direction          string     `json:"direction" binding:"required"`
	Type               string     `json:"type" binding:"required"`
	ContentsKind       string     `json:"contents_kind"`
	State              *string    `json:"state"`
	IsStatusMessage    bool       `json:"is_status_message"`
	Flags              uint32     `json:"flags"`
	PostedAt           *time.Time `json:"posted_at"`
}

// ToDomain validates the request and builds the message snapshot.
func (r CreateMessageRequest) ToDomain() (message.Message, error) {
	msgType, err := message.ParseType(r.Type)
	if err != nil {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}
	contents, err := message.ParseContentsKind(r.ContentsKind)
	if err != nil {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}

	m := message.Message{
		Direction:       message.Direction(r.Direction),
		Type:            msgType,
		ContentsKind:    contents,
		IsStatusMessage: r.IsStatusMessage,
		Flags:           message.Flags(r.Flags),
		PostedAt:        r.PostedAt,
	}
	if m.Direction != message.DirectionInbound && m.Direction != message.DirectionOutbound {
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}

	switch r.ConversationKind {
	case message.KindName(message.DirectKind{}):
		m.Kind = message.DirectKind{Identity: r.ContactIdentity, IsGateway: r.IsGateway}
	case message.KindName(message.GroupKind{}):
		id, err := uuid.Parse(r.GroupID)
		if err != nil {
			return message.Message{}, sentinal_errors.ErrInvalidInput
		}
		m.Kind = message.GroupKind{GroupID: id, IsNotesGroup: r.IsNotesGroup}
	case message.KindName(message.DistributionListKind{}):
		id, err := uuid.Parse(r.DistributionListID)
		if err != nil {
			return message.Message{}, sentinal_errors.ErrInvalidInput
		}
		m.Kind = message.DistributionListKind{ListID: id}
	case message.KindName(message.StatusKind{}):
		m.Kind = message.StatusKind{}
	default:
		return message.Message{}, sentinal_errors.ErrInvalidInput
	}

	if r.State != nil {
		state, err := message.ParseState(*r.State)
		if err != nil {
			return message.Message{}, sentinal_errors.ErrInvalidInput
		}
		m.State = &state
	}
	m.Normalize()
	return m, nil
}

type ReceiptRequest struct {
	// Code 0x00 is reported as an unsupported receipt, like any unmapped code.
	Code uint8 `json:"code"`
}

type StateRequest struct {
	State string `json:"state" binding:"required"`
}

type MessageResponse struct {
	ID               string     `json:"id"`
	ConversationKind string     `json:"conversation_kind"`
	Direction        string     `json:"direction"`
	Type             string     `json:"type"`
	State            *string    `json:"state"`
	IsRead           bool       `json:"is_read"`
	IsDeleted        bool       `json:"is_deleted"`
	CreatedAt        time.Time  `json:"created_at"`
	PostedAt         *time.Time `json:"posted_at,omitempty"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty"`
}

func NewMessageResponse(m message.Message) MessageResponse {
	resp := MessageResponse{
		ID:               m.ID.String(),
		ConversationKind: message.KindName(m.Kind),
		Direction:        string(m.Direction),
		Type:             string(m.Type),
		IsRead:           m.IsRead,
		IsDeleted:        m.IsDeleted,
		CreatedAt:        m.CreatedAt,
		PostedAt:         m.PostedAt,
		ModifiedAt:       m.ModifiedAt,
	}
	if m.State != nil {
		s := m.State.String()
		resp.State = &s
	}
	return resp
}
