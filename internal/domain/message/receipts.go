package message

import "fmt"

// ReceiptCode is the delivery receipt type carried on the wire.
type ReceiptCode uint8

const (
	ReceiptMsgReceived ReceiptCode = 0x01
	ReceiptMsgRead     ReceiptCode = 0x02
	ReceiptMsgUserAck  ReceiptCode = 0x03
	ReceiptMsgUserDec  ReceiptCode = 0x04
	ReceiptMsgConsumed ReceiptCode = 0x05
	ReceiptMsgReaction ReceiptCode = 0x7e
)

func (c ReceiptCode) String() string {
	switch c {
	case ReceiptMsgReceived:
		return "received"
	case ReceiptMsgRead:
		return "read"
	case ReceiptMsgUserAck:
		return "user_ack"
	case ReceiptMsgUserDec:
		return "user_dec"
	case ReceiptMsgConsumed:
		return "consumed"
	case ReceiptMsgReaction:
		return "reaction"
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(c))
}

// MapReceiptCode returns the state a receipt moves a message to. The second
// return value is false for codes that must not change the message state.
func MapReceiptCode(code ReceiptCode) (State, bool) {
	switch code {
	case ReceiptMsgReceived:
		return StateDelivered, true
	case ReceiptMsgRead:
		return StateRead, true
	case ReceiptMsgUserAck:
		return StateUserAck, true
	case ReceiptMsgUserDec:
		return StateUserDec, true
	}
	return "", false
}

// IsReaction reports whether s is a terminal user reaction.
func IsReaction(s State) bool {
	return s == StateUserAck || s == StateUserDec
}
