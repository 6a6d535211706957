package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorPayload is the polymorphic `detail` field the engine attaches to
// non-2xx responses: a plain string, a list of validation items, or a
// nested object that may itself carry a detail. It is a tagged union
// with one recursive flattener, independent of any UI.
type ErrorPayload struct {
	kind   payloadKind
	text   string
	items  []ErrorPayload
	fields map[string]ErrorPayload
	raw    json.RawMessage
}

type payloadKind int

const (
	kindEmpty payloadKind = iota
	kindMessage
	kindList
	kindObject
)

func Message(s string) ErrorPayload {
	return ErrorPayload{kind: kindMessage, text: s}
}

func (p *ErrorPayload) UnmarshalJSON(b []byte) error {
	p.raw = append(json.RawMessage(nil), b...)
	t := bytes.TrimSpace(b)
	if len(t) == 0 {
		p.kind = kindEmpty
		return nil
	}
	switch t[0] {
	case '"':
		p.kind = kindMessage
		return json.Unmarshal(t, &p.text)
	case '[':
		p.kind = kindList
		return json.Unmarshal(t, &p.items)
	case '{':
		p.kind = kindObject
		return json.Unmarshal(t, &p.fields)
	default:
		// number, bool or null; keep the literal text
		if bytes.Equal(t, []byte("null")) {
			p.kind = kindEmpty
			return nil
		}
		p.kind = kindMessage
		p.text = string(t)
		return nil
	}
}

// Flatten renders the payload as one display-ready string. Strings pass
// through, list items are joined with "; ", objects prefer a
// msg/message field, then recurse into detail, then fall back to the
// structural form.
func (p ErrorPayload) Flatten() string {
	switch p.kind {
	case kindMessage:
		return p.text
	case kindList:
		parts := make([]string, 0, len(p.items))
		for _, it := range p.items {
			parts = append(parts, it.itemString())
		}
		return strings.Join(parts, "; ")
	case kindObject:
		if f, ok := p.fields["msg"]; ok {
			return f.Flatten()
		}
		if f, ok := p.fields["message"]; ok {
			return f.Flatten()
		}
		if f, ok := p.fields["detail"]; ok {
			return f.Flatten()
		}
		return p.structural()
	default:
		return "unknown error"
	}
}

// itemString is the per-element rule for lists: strings and msg/message
// fields pass through, anything else is stringified structurally. List
// items do not recurse into detail.
func (p ErrorPayload) itemString() string {
	switch p.kind {
	case kindMessage:
		return p.text
	case kindObject:
		if f, ok := p.fields["msg"]; ok && f.kind == kindMessage {
			return f.text
		}
		if f, ok := p.fields["message"]; ok && f.kind == kindMessage {
			return f.text
		}
	}
	return p.structural()
}

func (p ErrorPayload) structural() string {
	if len(p.raw) > 0 {
		return string(bytes.TrimSpace(p.raw))
	}
	return p.text
}

// APIError carries the HTTP status and the flattened server detail for
// a failed request.
type APIError struct {
	Status  int
	Payload ErrorPayload
}

func (e *APIError) Error() string {
	if msg := e.Payload.Flatten(); msg != "" && msg != "unknown error" {
		return msg
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
}
