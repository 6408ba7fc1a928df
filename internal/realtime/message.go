package realtime

import (
	"encoding/json"
	"fmt"
)

// Event names exchanged over the socket.
const (
	EventCreateRoom        = "create-room"
	EventLeaveRoom         = "leave-room"
	EventSendChanges       = "send-changes"
	EventReceiveChanges    = "receive-changes"
	EventSendCursorMove    = "send-cursor-move"
	EventReceiveCursorMove = "receive-cursor-move"
)

// Message is one text frame: {"event": "...", "args": [...]}.
type Message struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args"`
}

// NewMessage encodes each arg as JSON
func NewMessage(event string, args ...interface{}) (*Message, error) {
	msg := &Message{Event: event, Args: make([]json.RawMessage, 0, len(args))}
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("encode %s arg %d: %w", event, i, err)
		}
		msg.Args = append(msg.Args, raw)
	}
	return msg, nil
}

// Encode returns the frame payload
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a frame payload
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if msg.Event == "" {
		return nil, fmt.Errorf("decode message: missing event")
	}
	return &msg, nil
}

// StringArg decodes args[i] as a string, returning "" when absent or not a string.
func (m *Message) StringArg(i int) string {
	if i >= len(m.Args) {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Args[i], &s); err != nil {
		return ""
	}
	return s
}

// Relayed returns the peer-facing copy of a send-* message, or false when the
// event is not relayed.
func (m *Message) Relayed() (*Message, bool) {
	switch m.Event {
	case EventSendChanges:
		return &Message{Event: EventReceiveChanges, Args: m.Args}, true
	case EventSendCursorMove:
		return &Message{Event: EventReceiveCursorMove, Args: m.Args}, true
	default:
		return nil, false
	}
}

// RoomArg is the position of the document id in a relayed message's args.
// send-changes(delta, documentId); send-cursor-move(range, documentId, cursorId)
const RoomArg = 1
