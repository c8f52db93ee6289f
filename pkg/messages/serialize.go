package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SerializeMessage encodes a message as a flat JSON object with its type merged
// into the payload fields.
func SerializeMessage(m *Message) ([]byte, error) {
	if m.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}

	fields := map[string]json.RawMessage{}
	payload := bytes.TrimSpace(m.Payload)
	if len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload of %s: %v", m.Type, err)
		}
	}

	t, err := json.Marshal(m.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message type: %v", err)
	}
	fields["type"] = t

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %v", err)
	}
	return b, nil
}

// DeserializeMessage reads the type of a frame and keeps the whole frame as the payload.
func DeserializeMessage(data []byte) (*Message, error) {
	envelope := struct {
		Type MessageType `json:"type"`
	}{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %v", err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}

	payload := make(json.RawMessage, len(data))
	copy(payload, data)
	return &Message{
		Type:    envelope.Type,
		Payload: payload,
	}, nil
}

// NewMessage builds a server message from a payload struct.
func NewMessage(t MessageType, payload interface{}) (*Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
	}
	return &Message{
		Type:    t,
		Payload: b,
	}, nil
}

// Encode builds and serializes a server message in one step.
func Encode(t MessageType, payload interface{}) ([]byte, error) {
	m, err := NewMessage(t, payload)
	if err != nil {
		return nil, err
	}
	return SerializeMessage(m)
}
