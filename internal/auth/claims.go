package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for the gateway session
// token. The token is a pointer to the server-side session record, not a
// carrier of upstream credentials: the upstream access token lives only
// in the session store.
//
// There is no refresh token flow. Any verification failure means the
// user must authenticate again.
type Claims struct {
	jwt.RegisteredClaims

	SessionID  string `json:"session_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}
