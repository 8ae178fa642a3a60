package models

import "github.com/golang-jwt/jwt/v5"

// ActiveRole is the role a user acts under for the current session.
type ActiveRole string

const (
	RoleMentor ActiveRole = "mentor"
	RoleMentee ActiveRole = "mentee"
)

// JWTClaims represents the JWT payload for access tokens issued by the
// identity provider.
type JWTClaims struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	ActiveRole  ActiveRole `json:"active_role"`
	IsMentor    bool       `json:"is_mentor"`
	IsMentee    bool       `json:"is_mentee"`
	jwt.RegisteredClaims
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	ActiveRole  ActiveRole `json:"active_role"`
}
