package dto

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*$`)

// IsEmail reports whether s looks like an email address
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// RegisterRequest represents a registration request. Pointer fields
// distinguish an absent attribute from an empty string, which map to
// different validation errors.
type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// TokenPair is the login response payload
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Message is a payload carrying a single confirmation message
type Message struct {
	Message string `json:"message"`
}
