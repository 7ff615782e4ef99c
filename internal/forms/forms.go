// Package forms holds the login and signup form values and their validators.
//
// Forms are immutable values: every edit returns a new form, so a view owns its state
// without sharing it.
package forms

import (
	"strings"
	"unicode/utf8"
)

// Field names accepted by With.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldAgreeToTerms    = "agreeToTerms"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

// ValidationError is a user-facing validation message.
type ValidationError string

const (
	ErrFillAllFields    ValidationError = "Please fill in all fields"
	ErrNameRequired     ValidationError = "Name is required"
	ErrEmailRequired    ValidationError = "Email is required"
	ErrInvalidEmail     ValidationError = "Please enter a valid email address"
	ErrPasswordTooShort ValidationError = "Password must be at least 6 characters long"
	ErrPasswordMismatch ValidationError = "Passwords do not match"
	ErrTermsRequired    ValidationError = "Please agree to the terms and conditions"
)

func (e ValidationError) Error() string { return string(e) }

// LoginForm is the credential form.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// With returns a copy of f with field set to value. Unknown fields leave f unchanged.
func (f LoginForm) With(field, value string) LoginForm {
	switch field {
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	}
	return f
}

// Validate accepts any pair of non-empty values.
func (f LoginForm) Validate() error {
	if f.Email == "" || f.Password == "" {
		return ErrFillAllFields
	}
	return nil
}

// SignupForm is the registration form.
type SignupForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// With returns a copy of f with field set to value. The terms flag accepts "true" and "false".
func (f SignupForm) With(field, value string) SignupForm {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldAgreeToTerms:
		f.AgreeToTerms = value == "true"
	}
	return f
}

// WithTerms returns a copy of f with the terms flag set.
func (f SignupForm) WithTerms(agree bool) SignupForm {
	f.AgreeToTerms = agree
	return f
}

// Validate runs the checks in order and reports only the first failure.
func (f SignupForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(f.Email) == "":
		return ErrEmailRequired
	case !strings.Contains(f.Email, "@"):
		return ErrInvalidEmail
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		return ErrPasswordTooShort
	case f.Password != f.ConfirmPassword:
		return ErrPasswordMismatch
	case !f.AgreeToTerms:
		return ErrTermsRequired
	}
	return nil
}

// Form is implemented by [LoginForm] and [SignupForm].
type Form[T any] interface {
	With(field, value string) T
	Validate() error
}

// State pairs a form with its displayed message and submission flag.
type State[T Form[T]] struct {
	Form       T
	Message    string
	Submitting bool
}

// Edit applies a field change and clears the displayed message.
func (s State[T]) Edit(field, value string) State[T] {
	s.Form = s.Form.With(field, value)
	s.Message = ""
	return s
}

// Submit marks the state as submitting and clears the message.
func (s State[T]) Submit() State[T] {
	s.Submitting = true
	s.Message = ""
	return s
}

// Fail ends submission with msg displayed.
func (s State[T]) Fail(msg string) State[T] {
	s.Submitting = false
	s.Message = msg
	return s
}

// Done ends submission without a message.
func (s State[T]) Done() State[T] {
	s.Submitting = false
	return s
}
