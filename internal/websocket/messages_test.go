package websocket

import (
	"encoding/json"
	"testing"
)

func TestParseMessageTypeValid(t *testing.T) {
	cases := []struct {
		payload  string
		expected MessageType
	}{
		{`{"type":"interaction_start"}`, MessageTypeInteractionStart},
		{`{"type":"interaction_stop"}`, MessageTypeInteractionStop},
		{`{"type":"ping"}`, MessageTypePing},
	}

	for _, tc := range cases {
		got, err := ParseMessageType([]byte(tc.payload))
		if err != nil {
			t.Errorf("ParseMessageType(%s) failed: %v", tc.payload, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseMessageType(%s) = %s, expected %s", tc.payload, got, tc.expected)
		}
	}
}

func TestParseMessageTypeInvalid(t *testing.T) {
	cases := []string{
		`not json`,
		`{}`,
		`{"type":"state"}`,
		`{"type":"teleport"}`,
	}

	for _, payload := range cases {
		if _, err := ParseMessageType([]byte(payload)); err == nil {
			t.Errorf("ParseMessageType(%s) must fail", payload)
		}
	}
}

func TestResultMessageRoundTrip(t *testing.T) {
	msg := NewResultMessage("complete_habit", 0.92, "Great job!")

	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ResultMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Type != MessageTypeResult {
		t.Errorf("Expected type %s, got %s", MessageTypeResult, decoded.Type)
	}
	if decoded.CommandType != "complete_habit" || decoded.Confidence != 0.92 {
		t.Errorf("Unexpected decoded message: %+v", decoded)
	}
	if decoded.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}

func TestErrorMessageFields(t *testing.T) {
	msg := NewErrorMessage("start_failed", "interaction already active")
	if msg.Type != MessageTypeError {
		t.Errorf("Expected type %s, got %s", MessageTypeError, msg.Type)
	}
	if msg.Code != "start_failed" {
		t.Errorf("Expected code start_failed, got %s", msg.Code)
	}
}
