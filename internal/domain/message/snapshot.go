package message

import "time"

// Settings carries the feature configuration the capability rules depend on.
type Settings struct {
	GroupAckEnabled     bool
	RemoteDeleteEnabled bool
	RemoteDeleteMaxAge  time.Duration
	EditMaxAge          time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		GroupAckEnabled:     true,
		RemoteDeleteEnabled: true,
		RemoteDeleteMaxAge:  DefaultRemoteDeleteMaxAge,
		EditMaxAge:          DefaultEditMaxAge,
	}
}

// Capabilities is the set of actions currently allowed on a message.
type Capabilities struct {
	CanAcknowledge   bool `json:"can_acknowledge"`
	CanDecline       bool `json:"can_decline"`
	CanMarkRead      bool `json:"can_mark_read"`
	CanMarkConsumed  bool `json:"can_mark_consumed"`
	CanDeleteRemote  bool `json:"can_delete_remotely"`
	CanEdit          bool `json:"can_edit"`
	CanStar          bool `json:"can_star"`
	CanReact         bool `json:"can_react"`
	ShowStatusIcon   bool `json:"show_status_icon"`
	IsUnread         bool `json:"is_unread"`
	IsBeingSent      bool `json:"is_being_sent"`
	SendsReadReceipt bool `json:"sends_read_receipt"`
}

// Evaluate runs every capability rule against m using a single now.
func Evaluate(m *Message, s Settings, now time.Time) Capabilities {
	return Capabilities{
		CanAcknowledge:   CanSendUserAcknowledge(m, s.GroupAckEnabled),
		CanDecline:       CanSendUserDecline(m, s.GroupAckEnabled),
		CanMarkRead:      CanMarkAsRead(m),
		CanMarkConsumed:  CanMarkAsConsumed(m),
		CanDeleteRemote:  CanDeleteRemotely(m, s.RemoteDeleteMaxAge, s.RemoteDeleteEnabled, now),
		CanEdit:          CanBeEdited(m, s.EditMaxAge, now),
		CanStar:          CanStarMessage(m),
		CanReact:         CanEmojiReact(m),
		ShowStatusIcon:   ShowStatusIcon(m),
		IsUnread:         IsUnread(m),
		IsBeingSent:      IsFileMessageBeingSent(m),
		SendsReadReceipt: CanSendDeliveryReceipt(m, ReceiptMsgRead, s.GroupAckEnabled),
	}
}
