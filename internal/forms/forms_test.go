package forms

import (
	"errors"
	"testing"
)

func validSignup() SignupForm {
	return SignupForm{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeToTerms:    true,
	}
}

func TestLoginForm(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "both set", email: "a@b.c", password: "x", want: nil},
		{name: "no at sign still accepted", email: "jane", password: "x", want: nil},
		{name: "empty email", email: "", password: "x", want: ErrFillAllFields},
		{name: "empty password", email: "a@b.c", password: "", want: ErrFillAllFields},
		{name: "both empty", email: "", password: "", want: ErrFillAllFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := LoginForm{}.With(FieldEmail, tt.email).With(FieldPassword, tt.password)
			if err := f.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(SignupForm) SignupForm
		want   error
	}{
		{name: "valid", mutate: func(f SignupForm) SignupForm { return f }, want: nil},
		{name: "empty name", mutate: func(f SignupForm) SignupForm { return f.With(FieldName, "") }, want: ErrNameRequired},
		{name: "whitespace name", mutate: func(f SignupForm) SignupForm { return f.With(FieldName, "   ") }, want: ErrNameRequired},
		{name: "empty email", mutate: func(f SignupForm) SignupForm { return f.With(FieldEmail, "") }, want: ErrEmailRequired},
		{name: "email without at", mutate: func(f SignupForm) SignupForm { return f.With(FieldEmail, "jane.example.com") }, want: ErrInvalidEmail},
		{
			name: "short password",
			mutate: func(f SignupForm) SignupForm {
				return f.With(FieldPassword, "12345").With(FieldConfirmPassword, "12345")
			},
			want: ErrPasswordTooShort,
		},
		{
			name: "five multibyte characters",
			mutate: func(f SignupForm) SignupForm {
				return f.With(FieldPassword, "ñññññ").With(FieldConfirmPassword, "ñññññ")
			},
			want: ErrPasswordTooShort,
		},
		{name: "mismatch", mutate: func(f SignupForm) SignupForm { return f.With(FieldConfirmPassword, "secret2") }, want: ErrPasswordMismatch},
		{name: "terms", mutate: func(f SignupForm) SignupForm { return f.WithTerms(false) }, want: ErrTermsRequired},
		{
			name:   "name and email empty reports name",
			mutate: func(f SignupForm) SignupForm { return f.With(FieldName, "").With(FieldEmail, "") },
			want:   ErrNameRequired,
		},
		{
			name: "short and mismatched reports length",
			mutate: func(f SignupForm) SignupForm {
				return f.With(FieldPassword, "abc").With(FieldConfirmPassword, "xyz")
			},
			want: ErrPasswordTooShort,
		},
		{
			name:   "everything wrong reports name",
			mutate: func(f SignupForm) SignupForm { return SignupForm{} },
			want:   ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(validSignup()).Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	if ErrPasswordTooShort.Error() != "Password must be at least 6 characters long" {
		t.Errorf("unexpected message %q", ErrPasswordTooShort.Error())
	}
	if ErrFillAllFields.Error() != "Please fill in all fields" {
		t.Errorf("unexpected message %q", ErrFillAllFields.Error())
	}
}

func TestWithIsPure(t *testing.T) {
	original := validSignup()
	edited := original.With(FieldName, "Someone Else").With(FieldAgreeToTerms, "false")

	if original.Name != "Jane Doe" || !original.AgreeToTerms {
		t.Error("With must not modify the receiver")
	}
	if edited.Name != "Someone Else" || edited.AgreeToTerms {
		t.Errorf("unexpected edited form %+v", edited)
	}
	if unchanged := original.With("unknown", "x"); unchanged != original {
		t.Error("unknown field should leave the form unchanged")
	}
}

func TestState(t *testing.T) {
	s := State[LoginForm]{}.Submit()
	if !s.Submitting {
		t.Fatal("expected submitting state")
	}

	s = s.Fail(ErrFillAllFields.Error())
	if s.Submitting || s.Message != "Please fill in all fields" {
		t.Fatalf("unexpected failed state %+v", s)
	}

	s = s.Edit(FieldEmail, "j")
	if s.Message != "" {
		t.Error("editing a field should clear the message")
	}
	if s.Form.Email != "j" {
		t.Errorf("expected email j, got %q", s.Form.Email)
	}
}
