package message

// CanSendDeliveryReceipt reports whether a receipt of the given kind may be
// sent for m. Only unread inbound direct messages qualify, plus group messages
// for ack/dec receipts when group acks are enabled.
func CanSendDeliveryReceipt(m *Message, kind ReceiptCode, groupAckEnabled bool) bool {
	if m == nil {
		return false
	}
	eligibleKind := m.IsDirectMessage() ||
		(groupAckEnabled && m.IsGroupMessage() && (kind == ReceiptMsgUserAck || kind == ReceiptMsgUserDec))

	return eligibleKind &&
		!m.IsStatusMessage &&
		m.IsInbound() &&
		!m.IsRead &&
		m.Type != TypeVoipStatus &&
		!m.Flags.Has(FlagNoDeliveryReceipts)
}

func CanMarkAsRead(m *Message) bool {
	return m != nil && m.IsInbound() && !m.IsRead
}

// CanMarkAsConsumed reports whether an inbound voice or audio message may be
// marked as played.
func CanMarkAsConsumed(m *Message) bool {
	if m == nil || !m.isDirectOrGroup() {
		return false
	}
	if m.IsStatusMessage || !m.IsInbound() || stateIs(m.State, StateConsumed) {
		return false
	}
	if m.ContentsKind != ContentsVoiceMessage && m.ContentsKind != ContentsAudio {
		return false
	}
	return m.State == nil || IsTransitionAllowed(m.State, StateConsumed.Ptr(), m.IsGroupMessage())
}

func CanSendUserAcknowledge(m *Message, groupAckEnabled bool) bool {
	return canSendUserReaction(m, StateUserAck, groupAckEnabled)
}

func CanSendUserDecline(m *Message, groupAckEnabled bool) bool {
	return canSendUserReaction(m, StateUserDec, groupAckEnabled)
}

func canSendUserReaction(m *Message, reaction State, groupAckEnabled bool) bool {
	if m == nil {
		return false
	}

	var directionOK bool
	if groupAckEnabled {
		directionOK = (m.IsInbound() && m.isDirectOrGroup()) || (m.IsOutbound() && m.IsGroupMessage())
	} else {
		directionOK = m.IsInbound() && m.IsDirectMessage()
	}

	return directionOK &&
		!stateIs(m.State, reaction) &&
		m.Type != TypeVoipStatus &&
		m.Type != TypeGroupCallStatus &&
		!m.IsStatusMessage &&
		!m.IsDeleted
}

// ShowStatusIcon reports whether the delivery state icon is displayed next to
// the message.
func ShowStatusIcon(m *Message) bool {
	if m == nil || m.Type == TypeVoipStatus {
		return false
	}

	switch k := m.Kind.(type) {
	case GroupKind:
		if m.IsOutbound() {
			return stateIn(m.State, StateSendFailed, StateFsKeyMismatch, StateSending) ||
				(stateIs(m.State, StatePending) && m.Type != TypeBallot)
		}
		return stateIs(m.State, StateConsumed)
	case DirectKind:
		if m.IsInbound() {
			return stateIs(m.State, StateConsumed)
		}
		if k.IsGateway {
			return stateIn(m.State, StateSendFailed, StateFsKeyMismatch, StatePending, StateSending)
		}
		return true
	default:
		return false
	}
}

func IsUnread(m *Message) bool {
	return m != nil && !m.IsStatusMessage && m.IsInbound() && !m.IsRead
}

var starrableTypes = map[Type]struct{}{
	TypeText:         {},
	TypeFile:         {},
	TypeLocation:     {},
	TypeBallot:       {},
	TypeContact:      {},
	TypeImage:        {},
	TypeVideo:        {},
	TypeVoiceMessage: {},
}

func CanStarMessage(m *Message) bool {
	if m == nil || !m.isDirectOrGroup() {
		return false
	}
	_, ok := starrableTypes[m.Type]
	return ok
}

var emojiReactableTypes = map[Type]struct{}{
	TypeText:     {},
	TypeFile:     {},
	TypeLocation: {},
	TypeBallot:   {},
}

func CanEmojiReact(m *Message) bool {
	if m == nil || m.IsDeleted || m.IsStatusMessage || !m.isDirectOrGroup() {
		return false
	}
	_, ok := emojiReactableTypes[m.Type]
	return ok
}

// IsFileMessageBeingSent reports whether an outbound message is still in the
// upload pipeline. Transcoding is not counted.
func IsFileMessageBeingSent(m *Message) bool {
	return m != nil && m.IsOutbound() && stateIn(m.State, StatePending, StateUploading, StateSending)
}
