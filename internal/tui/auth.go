package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

type authMode int

const (
	authSignIn authMode = iota
	authSignUp
)

const (
	authEmail = iota
	authPassword
	authConfirm
	authRole
)

// authResultMsg carries the outcome of a login or register call.
type authResultMsg struct {
	resp   *domain.AuthResponse
	email  string
	signUp bool
	err    error
}

type authModel struct {
	client     *client.Client
	notify     notifier
	mode       authMode
	inputs     []textinput.Model // email, password, confirm
	role       int               // index into domain.Roles
	focus      int
	submitting bool
	width      int
	height     int
}

func newAuthModel(c *client.Client, n notifier) authModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	confirm := password
	confirm.Placeholder = "confirm password"

	m := authModel{
		client: c,
		notify: n,
		inputs: []textinput.Model{email, password, confirm},
	}
	m.inputs[authEmail].Focus()
	return m
}

// fieldCount is the number of focusable fields in the current mode.
func (m authModel) fieldCount() int {
	if m.mode == authSignUp {
		return 4
	}
	return 2
}

func (m authModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.showAuthError(msg.err, msg.signUp)
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+r":
			if m.mode == authSignIn {
				m.mode = authSignUp
			} else {
				m.mode = authSignIn
			}
			return m.setFocus(authEmail), nil
		case "tab", "down":
			return m.setFocus((m.focus + 1) % m.fieldCount()), nil
		case "shift+tab", "up":
			return m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount()), nil
		case "enter":
			return m.submit()
		}
		if m.focus == authRole {
			switch msg.String() {
			case "left", "h":
				m.role = (m.role - 1 + len(domain.Roles)) % len(domain.Roles)
			case "right", "l", " ":
				m.role = (m.role + 1) % len(domain.Roles)
			}
			return m, nil
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m authModel) setFocus(i int) authModel {
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

func (m authModel) submit() (authModel, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[authEmail].Value())
	password := m.inputs[authPassword].Value()

	if m.mode == authSignIn {
		creds := domain.Credentials{Email: email, Password: password}
		if email == "" || password == "" {
			m.notify.failMsg("Email and password are required")
			return m, nil
		}
		if err := creds.Validate(); err != nil {
			m.notify.fail(err)
			return m, nil
		}
		m.submitting = true
		c := m.client
		return m, func() tea.Msg {
			resp, err := c.Login(context.Background(), creds)
			return authResultMsg{resp: resp, email: email, err: err}
		}
	}

	reg := domain.Registration{
		Email:    email,
		Password: password,
		Confirm:  m.inputs[authConfirm].Value(),
		Role:     domain.Roles[m.role],
	}
	if err := reg.Validate(); err != nil {
		m.notify.fail(err)
		return m, nil
	}
	m.submitting = true
	c := m.client
	return m, func() tea.Msg {
		resp, err := c.Register(context.Background(), reg)
		return authResultMsg{resp: resp, email: email, signUp: true, err: err}
	}
}

// showAuthError maps well-known API messages to friendlier toasts.
func (m authModel) showAuthError(err error, signUp bool) {
	msg := errText(err)
	if signUp {
		m.notify.failMsg(msg)
		return
	}
	switch {
	case strings.Contains(msg, "Invalid credentials"):
		m.notify.failMsg("Invalid email or password. Please try again.")
	case strings.Contains(msg, "not found"):
		m.notify.warn("Account not found. Please check your email or sign up.")
	default:
		m.notify.failMsg(msg)
	}
}

// reset clears the form, e.g. after logout.
func (m authModel) reset() authModel {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.submitting = false
	m.mode = authSignIn
	m.role = 0
	return m.setFocus(authEmail)
}

func (m authModel) View() string {
	var b strings.Builder

	heading := "Sign in"
	sub := "Welcome back. Sign in to manage the blog."
	if m.mode == authSignUp {
		heading = "Create account"
		sub = "Register a new dashboard account."
	}
	b.WriteString("\n " + titleStyle.Render(heading) + "\n")
	b.WriteString(" " + dimStyle.Render(sub) + "\n\n")

	labels := []string{"email", "password", "confirm"}
	for i := 0; i < min(m.fieldCount(), len(m.inputs)); i++ {
		b.WriteString(m.renderInput(labels[i], i) + "\n")
	}
	if m.mode == authSignUp {
		b.WriteString(m.renderRole() + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		if m.mode == authSignUp {
			b.WriteString(" " + dimStyle.Render("creating account..."))
		} else {
			b.WriteString(" " + dimStyle.Render("signing in..."))
		}
	} else if m.mode == authSignIn {
		b.WriteString(" " + metaStyle.Render("No account? ") + helpEntry("ctrl+r", "sign up"))
	} else {
		b.WriteString(" " + metaStyle.Render("Have an account? ") + helpEntry("ctrl+r", "sign in"))
	}

	box := lipgloss.NewStyle().Width(min(max(m.width-4, 30), 60)).Render(b.String())
	if m.width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}

func (m authModel) renderInput(label string, i int) string {
	cursor := " "
	style := metaStyle
	if i == m.focus {
		cursor = inputPromptStyle.Render(">")
		style = selectedStyle
	}
	return cursor + " " + style.Render(padRight(label+":", 10)) + " " + m.inputs[i].View()
}

func (m authModel) renderRole() string {
	cursor := " "
	style := metaStyle
	if m.focus == authRole {
		cursor = inputPromptStyle.Render(">")
		style = selectedStyle
	}
	var opts []string
	for i, r := range domain.Roles {
		if i == m.role {
			opts = append(opts, searchStyle.Render("["+r+"]"))
		} else {
			opts = append(opts, dimStyle.Render(" "+r+" "))
		}
	}
	return cursor + " " + style.Render(padRight("role:", 10)) + " " + strings.Join(opts, " ") + "  " + metaStyle.Render("(h/l)")
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
