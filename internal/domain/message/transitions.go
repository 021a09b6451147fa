package message

import (
	"sentinal-delivery/pkg/logger"
)

// IsTransitionAllowed reports whether a message in state from may move to
// state to. Nil states and self transitions are always rejected.
//
// FsKeyMismatch may only fall back to Pending or Sending for direct messages;
// a group message stuck in FsKeyMismatch stays failed.
func IsTransitionAllowed(from, to *State, isGroupMessage bool) bool {
	if from == nil || to == nil {
		logger.Debugf("invalid state transition input (from=%v, to=%v)", from, to)
		return false
	}

	f := *from
	if f == *to {
		return false
	}

	switch *to {
	case StateDelivered:
		return f == StateSending ||
			f == StateSendFailed ||
			f == StateFsKeyMismatch ||
			f == StatePending ||
			f == StateSent
	case StateRead:
		return f == StateSending ||
			f == StateSendFailed ||
			f == StateFsKeyMismatch ||
			f == StatePending ||
			f == StateSent ||
			f == StateDelivered
	case StateSendFailed:
		return f == StateSending ||
			f == StatePending ||
			f == StateTranscoding ||
			f == StateUploading
	case StateFsKeyMismatch:
		return f == StateSending ||
			f == StatePending ||
			f == StateTranscoding ||
			f == StateSent
	case StateSent:
		return f == StateSending ||
			f == StateSendFailed ||
			f == StateFsKeyMismatch ||
			f == StatePending ||
			f == StateTranscoding ||
			f == StateUploading
	case StateUserAck, StateUserDec:
		return true
	case StateConsumed:
		return !IsReaction(f)
	case StatePending:
		return f == StateSendFailed ||
			(f == StateFsKeyMismatch && !isGroupMessage)
	case StateSending:
		return f == StateSendFailed ||
			(f == StateFsKeyMismatch && !isGroupMessage) ||
			f == StatePending ||
			f == StateTranscoding ||
			f == StateUploading
	case StateUploading:
		return f == StateSendFailed ||
			f == StateFsKeyMismatch ||
			f == StatePending ||
			f == StateTranscoding
	default:
		// Transcoding lands here too: it is only ever an initial state.
		logger.Debugf("message state %s not handled", to.String())
		return false
	}
}

// CanTransition is IsTransitionAllowed for a message snapshot.
func CanTransition(m *Message, to State) bool {
	if m == nil {
		return false
	}
	return IsTransitionAllowed(m.State, &to, m.IsGroupMessage())
}
