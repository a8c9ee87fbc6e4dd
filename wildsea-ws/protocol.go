// Package wildseaws implements the graphql-ws subscription protocol over API
// Gateway WebSockets. Connections and their subscriptions are stored in
// DynamoDB; game changes arrive on a Kinesis stream and fan out to matching
// subscribers.
//
// See https://github.com/enisdenjo/graphql-ws/blob/master/PROTOCOL.md for the
// wire protocol.
package wildseaws

import (
	"encoding/json"
	"fmt"
)

const (
	MsgConnectionInit = "connection_init"
	MsgConnectionAck  = "connection_ack"
	MsgPing           = "ping"
	MsgPong           = "pong"
	MsgSubscribe      = "subscribe"
	MsgNext           = "next"
	MsgError          = "error"
	MsgComplete       = "complete"
)

// Message is one graphql-ws protocol frame.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// InitPayload is the payload of a connection_init message. The client passes
// its bearer token here since browsers cannot set WebSocket headers.
type InitPayload struct {
	Authorization string `json:"Authorization,omitempty"`
}

// SubscribePayload is the payload of a subscribe message.
type SubscribePayload struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// ParseMessage parses one protocol frame.
func ParseMessage(body string) (*Message, error) {
	var msg Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return nil, fmt.Errorf("invalid graphql-ws message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("missing message type")
	}
	return &msg, nil
}

func AckMessage() []byte {
	b, _ := json.Marshal(Message{Type: MsgConnectionAck})
	return b
}

func PongMessage() []byte {
	b, _ := json.Marshal(Message{Type: MsgPong})
	return b
}

// NextMessage builds a next frame carrying payload for the client-side
// subscription id.
func NextMessage(id string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling next payload: %w", err)
	}
	b, err := json.Marshal(Message{
		ID:      id,
		Type:    MsgNext,
		Payload: payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling next message: %w", err)
	}
	return b, nil
}

func ErrorMessage(id string, errMsg string) []byte {
	payload, _ := json.Marshal([]map[string]string{{"message": errMsg}})
	b, _ := json.Marshal(Message{
		ID:      id,
		Type:    MsgError,
		Payload: payload,
	})
	return b
}

func CompleteMessage(id string) []byte {
	b, _ := json.Marshal(Message{ID: id, Type: MsgComplete})
	return b
}
