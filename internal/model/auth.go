package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a token to one assessment session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// SessionTokenResponse is returned when a session is created
type SessionTokenResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}
