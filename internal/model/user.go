package model

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUserNotObject is returned when user data is not a JSON object.
var ErrUserNotObject = errors.New("user data is not a JSON object")

// User is the signed-in account as returned by the backend.
// The object is kept verbatim so it can be persisted and reloaded unchanged.
type User struct {
	raw json.RawMessage
}

// ParseUser validates that raw is a JSON object and wraps it.
func ParseUser(raw []byte) (User, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return User{}, ErrUserNotObject
	}
	return User{raw: append(json.RawMessage(nil), raw...)}, nil
}

// Raw returns the user's JSON.
func (u User) Raw() json.RawMessage {
	return u.raw
}

// IsZero reports whether u holds no data.
func (u User) IsZero() bool {
	return len(u.raw) == 0
}

func (u User) get(path string) string {
	return gjson.GetBytes(u.raw, path).String()
}

// ID returns the user identifier.
func (u User) ID() string {
	if id := u.get("id"); id != "" {
		return id
	}
	return u.get("_id")
}

// Name returns a display name.
func (u User) Name() string {
	for _, p := range []string{"name", "fullName", "full_name", "businessName", "username"} {
		if v := u.get(p); v != "" {
			return v
		}
	}
	first, last := u.get("firstName"), u.get("lastName")
	return strings.TrimSpace(first + " " + last)
}

// Email returns the user's email address.
func (u User) Email() string {
	return u.get("email")
}

// Role returns the account role, e.g. "supplier" or "client".
func (u User) Role() string {
	if r := u.get("role"); r != "" {
		return r
	}
	return u.get("type")
}
