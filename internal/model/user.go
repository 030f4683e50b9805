package model

import "time"

// TimestampLayout is the wire format for user timestamps (dd-MM-yyyy HH:mm:ss).
const TimestampLayout = "02-01-2006 15:04:05"

// User represents a registered account
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string // bcrypt hash, never plaintext
	Phones    []Phone
	Created   time.Time
	Modified  time.Time
	LastLogin time.Time
	IsActive  bool
}

// Phone belongs to exactly one User and shares its lifetime
type Phone struct {
	Number      string
	CityCode    string
	CountryCode string
}

// PhoneDTO is the wire shape of a phone, used in both requests and responses
type PhoneDTO struct {
	Number      string `json:"number"`
	CityCode    string `json:"citycode"`
	CountryCode string `json:"contrycode"`
}

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Name     string     `json:"name"`
	Password string     `json:"password"`
	Email    string     `json:"email"`
	Phones   []PhoneDTO `json:"phones"`
}

// LoginRequest is the payload for authenticating an account
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the representation of a User returned by every endpoint.
// Token is only set on login.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Phones    []PhoneDTO `json:"phones"`
	Created   string     `json:"created"`
	Modified  string     `json:"modified"`
	LastLogin string     `json:"lastLogin"`
	Token     string     `json:"token,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Message string `json:"mensaje"`
}
