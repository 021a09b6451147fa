package message

import "time"

// DefaultRemoteDeleteMaxAge is how long after creation an outbound message can
// still be deleted for everyone.
const DefaultRemoteDeleteMaxAge = 6 * time.Hour

// DefaultEditMaxAge is how long after creation an outbound message can still
// be edited.
const DefaultEditMaxAge = 6 * time.Hour

var remotelyDeletableTypes = map[Type]struct{}{
	TypeText:         {},
	TypeImage:        {},
	TypeVideo:        {},
	TypeVoiceMessage: {},
	TypeLocation:     {},
	TypeContact:      {},
	TypeFile:         {},
}

// CanDeleteRemotely reports whether m may still be deleted for every
// participant. now must be captured once by the caller. Messages in a notes
// group are not subject to maxAge.
func CanDeleteRemotely(m *Message, maxAge time.Duration, featureEnabled bool, now time.Time) bool {
	if m == nil || !featureEnabled {
		return false
	}
	if _, ok := remotelyDeletableTypes[m.Type]; !ok {
		return false
	}
	return !m.IsStatusMessage &&
		m.IsOutbound() &&
		m.isDirectOrGroup() &&
		(m.isNotesGroupMessage() || withinAge(m.CreatedAt, maxAge, now)) &&
		m.PostedAt != nil &&
		!stateIs(m.State, StateSendFailed) &&
		!m.IsDeleted
}

var editableTypes = map[Type]struct{}{
	TypeText: {},
	TypeFile: {},
}

// CanBeEdited reports whether the text or caption of m may still be edited.
// A message that failed to send can be edited even though it was never
// posted.
func CanBeEdited(m *Message, maxAge time.Duration, now time.Time) bool {
	if m == nil {
		return false
	}
	if _, ok := editableTypes[m.Type]; !ok {
		return false
	}
	return !m.IsStatusMessage &&
		m.IsOutbound() &&
		m.isDirectOrGroup() &&
		(m.PostedAt != nil || stateIs(m.State, StateSendFailed)) &&
		(m.isNotesGroupMessage() || withinAge(m.CreatedAt, maxAge, now)) &&
		!m.IsDeleted
}

func withinAge(createdAt time.Time, maxAge time.Duration, now time.Time) bool {
	return now.Sub(createdAt) <= maxAge
}
