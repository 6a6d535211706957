package api

import (
	"encoding/json"
	"testing"
)

func decodePayload(t *testing.T, raw string) ErrorPayload {
	t.Helper()
	var p ErrorPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return p
}

func TestFlatten_String(t *testing.T) {
	p := decodePayload(t, `"Invalid credentials"`)
	if got := p.Flatten(); got != "Invalid credentials" {
		t.Fatalf("want passthrough, got %q", got)
	}
}

func TestFlatten_ListOfStrings(t *testing.T) {
	p := decodePayload(t, `["first problem","second problem"]`)
	if got := p.Flatten(); got != "first problem; second problem" {
		t.Fatalf("unexpected join: %q", got)
	}
}

func TestFlatten_ListOfValidationItems(t *testing.T) {
	// FastAPI-style validation items carry a msg field
	p := decodePayload(t, `[{"loc":["body","interval"],"msg":"value too low"},{"message":"name required"}]`)
	if got := p.Flatten(); got != "value too low; name required" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFlatten_ListItemWithoutMessage(t *testing.T) {
	p := decodePayload(t, `[{"code":42}]`)
	if got := p.Flatten(); got != `{"code":42}` {
		t.Fatalf("expected structural fallback, got %q", got)
	}
}

func TestFlatten_ObjectPrefersMsg(t *testing.T) {
	p := decodePayload(t, `{"msg":"from msg","message":"from message"}`)
	if got := p.Flatten(); got != "from msg" {
		t.Fatalf("msg should win: %q", got)
	}
}

func TestFlatten_ObjectRecursesIntoDetail(t *testing.T) {
	p := decodePayload(t, `{"detail":{"detail":"deep error"}}`)
	if got := p.Flatten(); got != "deep error" {
		t.Fatalf("expected recursion into detail: %q", got)
	}
}

func TestFlatten_ObjectStructuralFallback(t *testing.T) {
	p := decodePayload(t, `{"weird":true}`)
	if got := p.Flatten(); got != `{"weird":true}` {
		t.Fatalf("expected structural fallback: %q", got)
	}
}

func TestFlatten_NullAndNumber(t *testing.T) {
	if got := decodePayload(t, `null`).Flatten(); got != "unknown error" {
		t.Fatalf("null: %q", got)
	}
	if got := decodePayload(t, `422`).Flatten(); got != "422" {
		t.Fatalf("number: %q", got)
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Status: 422, Payload: Message("interval too low")}
	if err.Error() != "interval too low" {
		t.Fatalf("unexpected: %q", err.Error())
	}

	empty := &APIError{Status: 503}
	if empty.Error() != "request failed: Service Unavailable" {
		t.Fatalf("fallback wrong: %q", empty.Error())
	}
}
