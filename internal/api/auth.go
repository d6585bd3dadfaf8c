package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrInvalidCredentials is returned when a login response does not carry
// both a token and a user object.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Paths tried, in order, when reading a login response.
var (
	tokenPaths = []string{"token", "accessToken", "access_token", "data.token", "data.accessToken", "data.access_token"}
	userPaths  = []string{"user", "data.user"}
)

// Credentials are what the user types into the sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend current at call time.
// It returns ErrInvalidCredentials unless the response has a non-empty
// token and a user object.
func (c *Client) Login(ctx context.Context, creds Credentials) (token string, user json.RawMessage, err error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return "", nil, err
	}
	return parseLogin(body)
}

func parseLogin(body []byte) (string, json.RawMessage, error) {
	if !gjson.ValidBytes(body) {
		return "", nil, ErrInvalidCredentials
	}

	var token string
	for _, p := range tokenPaths {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.String() != "" {
			token = v.String()
			break
		}
	}

	var user json.RawMessage
	for _, p := range userPaths {
		if v := gjson.GetBytes(body, p); v.IsObject() {
			user = json.RawMessage(v.Raw)
			break
		}
	}

	if token == "" || user == nil {
		return "", nil, ErrInvalidCredentials
	}
	return token, user, nil
}
