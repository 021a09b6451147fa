package message

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

type Type string

const (
	TypeText            Type = "TEXT"
	TypeImage           Type = "IMAGE"
	TypeVideo           Type = "VIDEO"
	TypeVoiceMessage    Type = "VOICEMESSAGE"
	TypeFile            Type = "FILE"
	TypeLocation        Type = "LOCATION"
	TypeBallot          Type = "BALLOT"
	TypeContact         Type = "CONTACT"
	TypeVoipStatus      Type = "VOIP_STATUS"
	TypeGroupCallStatus Type = "GROUP_CALL_STATUS"
	TypeForwardSecurity Type = "FORWARD_SECURITY_STATUS"
	TypeGroupStatus     Type = "GROUP_STATUS"
)

var allTypes = []Type{
	TypeText,
	TypeImage,
	TypeVideo,
	TypeVoiceMessage,
	TypeFile,
	TypeLocation,
	TypeBallot,
	TypeContact,
	TypeVoipStatus,
	TypeGroupCallStatus,
	TypeForwardSecurity,
	TypeGroupStatus,
}

func (t Type) Valid() bool {
	for _, candidate := range allTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

func ParseType(value string) (Type, error) {
	t := Type(value)
	if !t.Valid() {
		return "", fmt.Errorf("unknown message type %q", value)
	}
	return t, nil
}

// ContentsKind classifies what a message actually renders, independent of the
// wire type. A file message carrying audio is Audio.
type ContentsKind string

const (
	ContentsText         ContentsKind = "TEXT"
	ContentsImage        ContentsKind = "IMAGE"
	ContentsVideo        ContentsKind = "VIDEO"
	ContentsAudio        ContentsKind = "AUDIO"
	ContentsVoiceMessage ContentsKind = "VOICE_MESSAGE"
	ContentsFile         ContentsKind = "FILE"
	ContentsLocation     ContentsKind = "LOCATION"
	ContentsBallot       ContentsKind = "BALLOT"
	ContentsContact      ContentsKind = "CONTACT"
	ContentsStatus       ContentsKind = "STATUS"
)

var allContentsKinds = []ContentsKind{
	ContentsText,
	ContentsImage,
	ContentsVideo,
	ContentsAudio,
	ContentsVoiceMessage,
	ContentsFile,
	ContentsLocation,
	ContentsBallot,
	ContentsContact,
	ContentsStatus,
}

func (c ContentsKind) Valid() bool {
	for _, candidate := range allContentsKinds {
		if c == candidate {
			return true
		}
	}
	return false
}

// ParseContentsKind accepts an empty value as "not classified".
func ParseContentsKind(value string) (ContentsKind, error) {
	c := ContentsKind(value)
	if c != "" && !c.Valid() {
		return "", fmt.Errorf("unknown contents kind %q", value)
	}
	return c, nil
}

// Flags is the protocol message flag bitset.
type Flags uint32

const (
	FlagSendPush           Flags = 0x01
	FlagNoServerQueuing    Flags = 0x02
	FlagNoServerAck        Flags = 0x04
	FlagGroup              Flags = 0x10
	FlagShortLived         Flags = 0x20
	FlagNoDeliveryReceipts Flags = 0x80
)

func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Kind identifies which kind of conversation a message belongs to. The set of
// implementations is closed: DirectKind, GroupKind, DistributionListKind and
// StatusKind.
type Kind interface {
	kindName() string
}

// DirectKind is a one-to-one conversation with a contact.
type DirectKind struct {
	Identity string
	// IsGateway marks gateway/channel contacts (business or broadcast ids).
	IsGateway bool
}

// GroupKind is a group conversation.
type GroupKind struct {
	GroupID uuid.UUID
	// IsNotesGroup marks a group without any other members.
	IsNotesGroup bool
}

// DistributionListKind is a local fan-out list; each recipient receives its
// own direct copy.
type DistributionListKind struct {
	ListID uuid.UUID
}

// StatusKind holds synthetic messages that do not belong to a conversation.
type StatusKind struct{}

func (DirectKind) kindName() string           { return "direct" }
func (GroupKind) kindName() string            { return "group" }
func (DistributionListKind) kindName() string { return "distribution_list" }
func (StatusKind) kindName() string           { return "status" }

// KindName returns a stable name for k, or "" for nil.
func KindName(k Kind) string {
	if k == nil {
		return ""
	}
	return k.kindName()
}

// Message holds the attributes the delivery rules read. It is a read-only
// snapshot taken from the message store.
type Message struct {
	ID              uuid.UUID
	Kind            Kind
	Direction       Direction
	Type            Type
	ContentsKind    ContentsKind
	State           *State
	IsStatusMessage bool
	IsRead          bool
	IsDeleted       bool
	Flags           Flags
	CreatedAt       time.Time
	PostedAt        *time.Time
	ModifiedAt      *time.Time
}

// Normalize derives the fields implied by the conversation kind: a message in
// StatusKind is always a status message.
func (m *Message) Normalize() {
	if _, ok := m.Kind.(StatusKind); ok {
		m.IsStatusMessage = true
	}
}

func (m *Message) IsOutbound() bool {
	return m.Direction == DirectionOutbound
}

func (m *Message) IsInbound() bool {
	return m.Direction == DirectionInbound
}

func (m *Message) IsGroupMessage() bool {
	_, ok := m.Kind.(GroupKind)
	return ok
}

func (m *Message) IsDirectMessage() bool {
	_, ok := m.Kind.(DirectKind)
	return ok
}

func (m *Message) IsDistributionListMessage() bool {
	_, ok := m.Kind.(DistributionListKind)
	return ok
}

func (m *Message) isNotesGroupMessage() bool {
	g, ok := m.Kind.(GroupKind)
	return ok && g.IsNotesGroup
}

// isDirectOrGroup covers the kinds that carry user-visible conversation
// messages.
func (m *Message) isDirectOrGroup() bool {
	return m.IsDirectMessage() || m.IsGroupMessage()
}
