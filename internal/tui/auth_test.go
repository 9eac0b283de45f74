package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

func newTestAuthModel(c *client.Client) authModel {
	m := newAuthModel(c, newTestNotifier())
	m.width = 80
	m.height = 30
	return m
}

func TestAuthTypingGoesToFocusedInput(t *testing.T) {
	m := newTestAuthModel(nil)
	for _, r := range "ada@example.com" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "secret" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	if got := m.inputs[authEmail].Value(); got != "ada@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := m.inputs[authPassword].Value(); got != "secret" {
		t.Errorf("password = %q", got)
	}
	if strings.Contains(m.View(), "secret") {
		t.Error("password should be masked")
	}
}

func TestAuthFocusWrapsByMode(t *testing.T) {
	m := newTestAuthModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != authEmail {
		t.Errorf("sign in has two fields, focus = %d", m.focus)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != authSignUp {
		t.Fatal("expected ctrl+r to switch to sign up")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != authRole {
		t.Errorf("sign up wraps back to role, focus = %d", m.focus)
	}
	if !strings.Contains(m.View(), "Create account") {
		t.Error("expected sign up heading")
	}
}

func TestAuthRoleCycle(t *testing.T) {
	m := newTestAuthModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = m.setFocus(authRole)

	m, _ = m.Update(keyRunes("l"))
	if domain.Roles[m.role] != "admin" {
		t.Errorf("role = %q, want admin", domain.Roles[m.role])
	}
	m, _ = m.Update(keyRunes("l"))
	if domain.Roles[m.role] != "user" {
		t.Errorf("role = %q, want wrap to user", domain.Roles[m.role])
	}
	m, _ = m.Update(keyRunes("h"))
	if domain.Roles[m.role] != "admin" {
		t.Errorf("role = %q, want admin", domain.Roles[m.role])
	}
}

func TestAuthSignInRequiresFields(t *testing.T) {
	m := newTestAuthModel(nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.submitting {
		t.Error("expected no request")
	}
	got := newestToast(t, m.notify)
	if got.Message != "Email and password are required" || got.Severity != toast.SeverityError {
		t.Errorf("unexpected toast %+v", got)
	}
}

func TestAuthSignInRejectsBadEmail(t *testing.T) {
	m := newTestAuthModel(nil)
	m.inputs[authEmail].SetValue("not-an-email")
	m.inputs[authPassword].SetValue("secret")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no request")
	}
	if got := newestToast(t, m.notify); got.Message != "email: invalid address" {
		t.Errorf("toast = %q", got.Message)
	}
}

func TestAuthSignUpValidation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     string
	}{
		{"short password", "abc", "abc", "password: must be at least 6 characters"},
		{"mismatch", "secret1", "secret2", "confirm: passwords do not match"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestAuthModel(nil)
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
			m.inputs[authEmail].SetValue("ada@example.com")
			m.inputs[authPassword].SetValue(tc.password)
			m.inputs[authConfirm].SetValue(tc.confirm)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if cmd != nil {
				t.Error("expected no request")
			}
			if got := newestToast(t, m.notify); got.Message != tc.want {
				t.Errorf("toast = %q, want %q", got.Message, tc.want)
			}
		})
	}
}

func TestAuthLoginRequest(t *testing.T) {
	var got domain.Credentials
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "tok", Role: "admin", Name: "Ada"}) //nolint:errcheck
	}))
	defer srv.Close()

	m := newTestAuthModel(client.New(client.Options{AuthURL: srv.URL}))
	m.inputs[authEmail].SetValue(" ada@example.com ")
	m.inputs[authPassword].SetValue("secret")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.submitting {
		t.Fatal("expected login request")
	}
	if !strings.Contains(m.View(), "signing in...") {
		t.Error("expected progress text")
	}

	msg, ok := cmd().(authResultMsg)
	if !ok {
		t.Fatal("expected authResultMsg")
	}
	if msg.err != nil || msg.resp.Token != "tok" || msg.email != "ada@example.com" || msg.signUp {
		t.Errorf("unexpected result %+v", msg)
	}
	if got.Email != "ada@example.com" || got.Password != "secret" {
		t.Errorf("sent %+v", got)
	}
}

func TestAuthRegisterRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "tok", Role: "admin"}) //nolint:errcheck
	}))
	defer srv.Close()

	m := newTestAuthModel(client.New(client.Options{AuthURL: srv.URL}))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.inputs[authEmail].SetValue("ada@example.com")
	m.inputs[authPassword].SetValue("secret1")
	m.inputs[authConfirm].SetValue("secret1")
	m.role = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected register request")
	}
	msg := cmd().(authResultMsg)
	if msg.err != nil || !msg.signUp {
		t.Errorf("unexpected result %+v", msg)
	}
	if got["role"] != "admin" || got["password"] != "secret1" {
		t.Errorf("sent %v", got)
	}
	if _, ok := got["Confirm"]; ok {
		t.Error("confirmation must not be sent")
	}
}

func TestAuthErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		signUp bool
		want   string
		sev    toast.Severity
	}{
		{
			"invalid credentials",
			&client.HTTPError{StatusCode: 401, Message: "Invalid credentials"},
			false,
			"Invalid email or password. Please try again.",
			toast.SeverityError,
		},
		{
			"unknown account",
			&client.HTTPError{StatusCode: 404, Message: "User not found"},
			false,
			"Account not found. Please check your email or sign up.",
			toast.SeverityWarning,
		},
		{
			"other login error",
			errors.New("dial tcp: connection refused"),
			false,
			"dial tcp: connection refused",
			toast.SeverityError,
		},
		{
			"sign up error passes through",
			&client.HTTPError{StatusCode: 400, Message: "User already exists"},
			true,
			"User already exists",
			toast.SeverityError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestAuthModel(nil)
			m.submitting = true
			m, _ = m.Update(authResultMsg{err: tc.err, signUp: tc.signUp})
			if m.submitting {
				t.Error("expected submitting cleared")
			}
			got := newestToast(t, m.notify)
			if got.Message != tc.want || got.Severity != tc.sev {
				t.Errorf("toast = %+v, want %q (%s)", got, tc.want, tc.sev)
			}
		})
	}
}

func TestAuthIgnoresKeysWhileSubmitting(t *testing.T) {
	m := newTestAuthModel(nil)
	m.submitting = true
	m, _ = m.Update(keyRunes("a"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.inputs[authEmail].Value() != "" || m.mode != authSignIn {
		t.Error("expected keys ignored while submitting")
	}
}

func TestAuthReset(t *testing.T) {
	m := newTestAuthModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.inputs[authEmail].SetValue("ada@example.com")
	m = m.setFocus(authRole)
	m.role = 1

	m = m.reset()
	if m.mode != authSignIn || m.role != 0 || m.focus != authEmail {
		t.Errorf("unexpected state mode=%d role=%d focus=%d", m.mode, m.role, m.focus)
	}
	if m.inputs[authEmail].Value() != "" {
		t.Error("expected inputs cleared")
	}
}
