// Package validation checks registration input against the configured patterns.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"user_service/internal/config"
	"user_service/internal/model"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password does not meet the required format")
	ErrInvalidPhone    = errors.New("phone number and city code must contain only digits")
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Validator holds the compiled email and password patterns
type Validator struct {
	email    *regexp.Regexp
	password []*regexp.Regexp
}

// New compiles the patterns in cfg. Every password pattern must match for a
// password to be accepted.
func New(cfg config.ValidationConfig) (*Validator, error) {
	email, err := regexp.Compile(cfg.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern: %w", err)
	}

	if len(cfg.PasswordPatterns) == 0 {
		return nil, errors.New("at least one password pattern is required")
	}
	password := make([]*regexp.Regexp, 0, len(cfg.PasswordPatterns))
	for _, p := range cfg.PasswordPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid password pattern %q: %w", p, err)
		}
		password = append(password, re)
	}

	return &Validator{email: email, password: password}, nil
}

// ValidateRegistration returns the first rule req violates, or nil.
func (v *Validator) ValidateRegistration(req model.RegisterRequest) error {
	if err := v.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := v.ValidatePassword(req.Password); err != nil {
		return err
	}
	return ValidatePhones(req.Phones)
}

// ValidateEmail rejects an empty email or one not matching the email pattern.
func (v *Validator) ValidateEmail(email string) error {
	if email == "" || !v.email.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword requires every configured password pattern to match.
func (v *Validator) ValidatePassword(password string) error {
	for _, re := range v.password {
		if !re.MatchString(password) {
			return ErrInvalidPassword
		}
	}
	return nil
}

// ValidatePhones rejects any number or city code with a non-digit, including a leading '+'.
func ValidatePhones(phones []model.PhoneDTO) error {
	for _, p := range phones {
		if !digitsOnly.MatchString(p.Number) || !digitsOnly.MatchString(p.CityCode) {
			return ErrInvalidPhone
		}
	}
	return nil
}
