package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/blogdash/internal/session"
	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

type profileLoadedMsg struct {
	profile *domain.Profile
	err     error
}

type passwordChangedMsg struct{ err error }

// logoutMsg asks the App to drop the session and return to the auth screen.
type logoutMsg struct{}

const (
	pwCurrent = iota
	pwNew
	pwConfirm
)

type settingsModel struct {
	client   *client.Client
	notify   notifier
	session  *session.Session
	profile  *domain.Profile
	loading  bool
	changing bool // password form open
	saving   bool
	inputs   []textinput.Model
	focus    int
	width    int
	height   int
}

func newSettingsModel(c *client.Client, n notifier, s *session.Session) settingsModel {
	inputs := make([]textinput.Model, 3)
	placeholders := []string{"current password", "new password", "confirm new password"}
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
		ti.Placeholder = placeholders[i]
		inputs[i] = ti
	}
	return settingsModel{
		client:  c,
		notify:  n,
		session: s,
		inputs:  inputs,
	}
}

func (m settingsModel) Init() tea.Cmd {
	return m.load()
}

func (m settingsModel) load() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := c.GetProfile(context.Background())
		return profileLoadedMsg{profile: p, err: err}
	}
}

// email returns the best known email: the profile, else the session.
func (m settingsModel) email() string {
	if m.profile != nil && m.profile.Email != "" {
		return m.profile.Email
	}
	if m.session != nil {
		return m.session.Email
	}
	return ""
}

func (m settingsModel) role() string {
	if m.profile != nil && m.profile.Role != "" {
		return m.profile.Role
	}
	if m.session != nil {
		return m.session.Role
	}
	return ""
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// The profile endpoint is optional; session data covers the view.
			if !client.IsStatus(msg.err, http.StatusNotFound) {
				m.notify.fail(msg.err)
			}
			return m, nil
		}
		m.profile = msg.profile
		return m, nil

	case passwordChangedMsg:
		m.saving = false
		if msg.err != nil {
			m.notify.fail(msg.err)
			return m, nil
		}
		m.notify.success("Password updated successfully!")
		return m.closeForm(), nil

	case tea.KeyMsg:
		if m.changing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "p":
			m.changing = true
			return m.setFocus(pwCurrent), textinput.Blink
		case "r":
			m.loading = true
			return m, m.load()
		case "L":
			return m, func() tea.Msg { return logoutMsg{} }
		}
		return m, nil
	}

	if m.changing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m settingsModel) updateForm(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m.closeForm(), nil
	case "tab", "down":
		return m.setFocus((m.focus + 1) % len(m.inputs)), nil
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs)), nil
	case "enter":
		if m.focus < pwConfirm {
			return m.setFocus(m.focus + 1), nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m settingsModel) submit() (settingsModel, tea.Cmd) {
	change := domain.PasswordChange{
		Current: m.inputs[pwCurrent].Value(),
		New:     m.inputs[pwNew].Value(),
		Confirm: m.inputs[pwConfirm].Value(),
	}
	if err := change.Validate(); err != nil {
		m.notify.fail(err)
		return m, nil
	}
	if m.client == nil {
		return m, nil
	}
	m.saving = true
	c := m.client
	return m, func() tea.Msg {
		return passwordChangedMsg{err: c.UpdatePassword(context.Background(), change)}
	}
}

func (m settingsModel) setFocus(i int) settingsModel {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m
}

func (m settingsModel) closeForm() settingsModel {
	m.changing = false
	m.saving = false
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = pwCurrent
	return m
}

func (m settingsModel) helpKeys() string {
	if m.changing {
		return helpBar("tab", "next", "enter", "submit", "esc", "cancel")
	}
	return helpBar("1-4", "tabs", "p", "change password", "r", "reload", "L", "log out", "?", "help", "q", "quit")
}

func (m settingsModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("PROFILE") + "\n")
	email := m.email()
	if email == "" {
		email = "unknown"
	}
	fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(padRight("email:", 10)), normalStyle.Render(email))
	role := m.role()
	if role == "" {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(padRight("role:", 10)), dimStyle.Render("unknown"))
	} else {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(padRight("role:", 10)), roleBadge(role))
	}
	if m.session != nil && !m.session.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(padRight("expires:", 10)),
			dimStyle.Render(m.session.ExpiresAt.Local().Format("Jan 2, 2006 15:04")))
	}
	if m.loading {
		b.WriteString("   " + dimStyle.Render("refreshing...") + "\n")
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("PASSWORD") + "\n")
	if !m.changing {
		b.WriteString("   " + helpEntry("p", "change password") + "\n")
	} else {
		labels := []string{"current", "new", "confirm"}
		for i, in := range m.inputs {
			cursor := " "
			style := metaStyle
			if i == m.focus {
				cursor = inputPromptStyle.Render(">")
				style = selectedStyle
			}
			fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(padRight(labels[i]+":", 10)), in.View())
		}
		if m.saving {
			b.WriteString("   " + dimStyle.Render("updating...") + "\n")
		} else {
			b.WriteString("   " + metaStyle.Render(fmt.Sprintf("at least %d characters", domain.MinPasswordLen)) + "\n")
		}
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("SESSION") + "\n")
	b.WriteString("   " + helpEntry("L", "log out") + "\n")

	return truncateToHeight(b.String(), m.height)
}
