package domain

import (
	"encoding/json"
	"strconv"
)

// UnmarshalJSON accepts the id under any of the key spellings the auth
// service has used over time (id, user_id, userId). A user that decodes
// with ID 0 has no usable identity.
func (u *User) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, key := range []string{"id", "user_id", "userId"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		if id, ok := decodeID(raw); ok {
			u.ID = id
			break
		}
	}
	if raw, ok := m["name"]; ok {
		_ = json.Unmarshal(raw, &u.Name)
	}
	if raw, ok := m["email"]; ok {
		_ = json.Unmarshal(raw, &u.Email)
	}
	return nil
}

func decodeID(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, n != 0
		}
	}
	return 0, false
}
