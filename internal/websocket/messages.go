package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies a WebSocket control message. Audio travels as
// binary frames and never carries a type field.
type MessageType string

const (
	// Device to server.
	MessageTypeInteractionStart MessageType = "interaction_start"
	MessageTypeInteractionStop  MessageType = "interaction_stop"
	MessageTypePing             MessageType = "ping"

	// Server to device.
	MessageTypeState  MessageType = "state"
	MessageTypeResult MessageType = "result"
	MessageTypePong   MessageType = "pong"
	MessageTypeError  MessageType = "error"
)

// BaseMessage is the envelope shared by all control messages.
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
}

// StateMessage notifies the device of an interaction state transition.
type StateMessage struct {
	BaseMessage
	State string `json:"state"`
}

// ResultMessage carries the outcome of one completed interaction.
type ResultMessage struct {
	BaseMessage
	CommandType  string  `json:"command_type"`
	Confidence   float64 `json:"confidence"`
	ResponseText string  `json:"response_text"`
}

// ErrorMessage reports a failure to the device.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// PongMessage answers a ping.
type PongMessage struct {
	BaseMessage
}

func newBase(messageType MessageType) BaseMessage {
	return BaseMessage{
		Type:      messageType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewStateMessage builds a state notification.
func NewStateMessage(state string) StateMessage {
	return StateMessage{BaseMessage: newBase(MessageTypeState), State: state}
}

// NewResultMessage builds a result notification.
func NewResultMessage(commandType string, confidence float64, responseText string) ResultMessage {
	return ResultMessage{
		BaseMessage:  newBase(MessageTypeResult),
		CommandType:  commandType,
		Confidence:   confidence,
		ResponseText: responseText,
	}
}

// NewErrorMessage builds an error notification.
func NewErrorMessage(code, message string) ErrorMessage {
	return ErrorMessage{BaseMessage: newBase(MessageTypeError), Code: code, Message: message}
}

// NewPongMessage builds a pong reply.
func NewPongMessage() PongMessage {
	return PongMessage{BaseMessage: newBase(MessageTypePong)}
}

// ParseMessageType extracts and validates the type field of an incoming
// control message.
func ParseMessageType(message []byte) (MessageType, error) {
	var envelope BaseMessage
	if err := json.Unmarshal(message, &envelope); err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	switch envelope.Type {
	case MessageTypeInteractionStart, MessageTypeInteractionStop, MessageTypePing:
		return envelope.Type, nil
	case "":
		return "", fmt.Errorf("message missing type field")
	default:
		return "", fmt.Errorf("unknown message type: %s", envelope.Type)
	}
}
