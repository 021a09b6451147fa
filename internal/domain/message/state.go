package message

import (
	"fmt"
)

// State is the delivery lifecycle state of a message. A message without a
// state carries a nil *State.
type State string

const (
	StateSending       State = "SENDING"
	StatePending       State = "PENDING"
	StateUploading     State = "UPLOADING"
	StateTranscoding   State = "TRANSCODING"
	StateSent          State = "SENT"
	StateDelivered     State = "DELIVERED"
	StateRead          State = "READ"
	StateUserAck       State = "USERACK"
	StateUserDec       State = "USERDEC"
	StateConsumed      State = "CONSUMED"
	StateSendFailed    State = "SENDFAILED"
	StateFsKeyMismatch State = "FS_KEY_MISMATCH"
)

var allStates = []State{
	StateSending,
	StatePending,
	StateUploading,
	StateTranscoding,
	StateSent,
	StateDelivered,
	StateRead,
	StateUserAck,
	StateUserDec,
	StateConsumed,
	StateSendFailed,
	StateFsKeyMismatch,
}

// AllStates returns every defined state.
func AllStates() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

func (s State) Valid() bool {
	for _, candidate := range allStates {
		if s == candidate {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// Ptr returns a pointer to a copy of s.
func (s State) Ptr() *State {
	return &s
}

func ParseState(value string) (State, error) {
	s := State(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown message state %q", value)
	}
	return s, nil
}

// stateIs reports whether the optional state is set and equal to want.
func stateIs(s *State, want State) bool {
	return s != nil && *s == want
}

func stateIn(s *State, set ...State) bool {
	if s == nil {
		return false
	}
	for _, candidate := range set {
		if *s == candidate {
			return true
		}
	}
	return false
}
