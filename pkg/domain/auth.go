package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

// MinPasswordLen is the shortest password the auth API accepts.
const MinPasswordLen = 6

// Roles are the account roles a user can register with.
var Roles = []string{"user", "admin"}

// ValidRole returns true if the given role is a known account role.
func ValidRole(role string) bool {
	return slices.Contains(Roles, role)
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that the email parses and a password is present.
func (c Credentials) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("email", c.Email, email),
		criterio.Run("password", c.Password, required),
	)
}

// Registration is the sign-up form. Confirm never leaves the client.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
	Role     string `json:"role"`
}

// Validate checks the email, password length, confirmation and role.
func (r Registration) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if err := email(r.Email); err != nil {
		errs = errs.Append("email", err)
	}
	if err := password(r.Password); err != nil {
		errs = errs.Append("password", err)
	} else if r.Password != r.Confirm {
		errs = errs.Append("confirm", fmt.Errorf("passwords do not match"))
	}
	if !ValidRole(r.Role) {
		errs = errs.Append("role", fmt.Errorf("must be one of %s", strings.Join(Roles, ", ")))
	}
	return errs.ToError()
}

// PasswordChange is the settings form for a new password.
type PasswordChange struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
	Confirm string `json:"-"`
}

// Validate checks the current password is given and the new one is
// long enough and confirmed.
func (p PasswordChange) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if err := required(p.Current); err != nil {
		errs = errs.Append("current", err)
	}
	if p.New != p.Confirm {
		errs = errs.Append("confirm", fmt.Errorf("new passwords do not match"))
	} else if err := password(p.New); err != nil {
		errs = errs.Append("new", err)
	}
	return errs.ToError()
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Message string `json:"message,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Profile is the signed-in user's account.
type Profile struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func email(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid address")
	}
	return nil
}

func password(s string) error {
	if s == "" {
		return fmt.Errorf("is required")
	}
	if len(s) < MinPasswordLen {
		return fmt.Errorf("must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// FirstError returns "field: message" for the first field error in err, or
// err's text when it is not a field error. It is what the UI shows in a
// single-line toast.
func FirstError(err error) string {
	if err == nil {
		return ""
	}
	var fe criterio.FieldErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return fe[0].Field + ": " + fe[0].Err.Error()
	}
	return err.Error()
}
