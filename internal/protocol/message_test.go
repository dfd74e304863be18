package protocol

import (
	"encoding/json"
	"testing"
)

func TestMessage_RoundtripWithError(t *testing.T) {
	in := Message{
		ID:      "evt_1",
		Type:    "event",
		Topic:   "booking.state",
		Payload: MustRaw(map[string]string{"state": "submitting"}),
		Error:   &ErrPayload{Code: "PERSIST_FAILED", Message: "http 500"},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Message
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Topic != "booking.state" || out.Error == nil || out.Error.Code != "PERSIST_FAILED" {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}

	var payload map[string]string
	if err := json.Unmarshal(out.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["state"] != "submitting" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
