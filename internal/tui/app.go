package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/naveenspark/blogdash/internal/browser"
	"github.com/naveenspark/blogdash/internal/session"
	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/pkg/client"
)

type view int

const (
	viewAuth view = iota
	viewDashboard
	viewPosts
	viewForm
	viewSettings
)

// chromeLines is header(2) + tabs(1) + help(1).
const chromeLines = 4

// Options configures the dashboard.
type Options struct {
	Client        *client.Client
	Store         *session.Store
	Session       *session.Session // nil when signed out
	Toasts        *toast.Manager
	ErrorLifetime time.Duration
	MaxVisible    int
	Version       string
	CheckUpdates  bool
	BlogURL       string
	Logger        zerolog.Logger
}

// App is the root Bubbletea model.
type App struct {
	client       *client.Client
	store        *session.Store
	session      *session.Session
	toasts       *toast.Manager
	notify       notifier
	log          zerolog.Logger
	view         view
	auth         authModel
	dashboard    dashboardModel
	posts        postsModel
	form         formModel
	settings     settingsModel
	spinner      spinner.Model
	helpOpen     bool
	helpCursor   int
	helpItems    []helpItem
	maxVisible   int
	version      string
	checkUpdates bool
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates the dashboard. Without a session it starts on the sign-in
// screen.
func NewApp(opts Options) App {
	if opts.Toasts == nil {
		opts.Toasts = toast.New()
	}
	if opts.MaxVisible <= 0 {
		opts.MaxVisible = 5
	}
	n := notifier{toasts: opts.Toasts, errLifetime: opts.ErrorLifetime}

	items := []helpItem{
		{label: "Releases", desc: "download the latest blogdash", url: releasesURL},
	}
	if opts.BlogURL != "" {
		items = append(items, helpItem{label: "Blog API", desc: opts.BlogURL, url: opts.BlogURL})
	}

	a := App{
		client:       opts.Client,
		store:        opts.Store,
		toasts:       opts.Toasts,
		notify:       n,
		log:          opts.Logger,
		auth:         newAuthModel(opts.Client, n),
		form:         newFormModel(opts.Client, n),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		helpItems:    items,
		maxVisible:   opts.MaxVisible,
		version:      opts.Version,
		checkUpdates: opts.CheckUpdates,
		view:         viewAuth,
	}
	a = a.signIn(opts.Session)
	return a
}

// signIn rebuilds the session-bound screens for s. A nil session leaves the
// app on the auth screen.
func (a App) signIn(s *session.Session) App {
	a.session = s
	a.dashboard = newDashboardModel(a.client, a.notify)
	a.posts = newPostsModel(a.client, a.notify)
	a.settings = newSettingsModel(a.client, a.notify, s)
	if s == nil {
		a.view = viewAuth
		return a
	}
	a.posts.author = s.Email
	a.view = viewDashboard
	return a.resize()
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{shimmerTickCmd(), a.spinner.Tick}
	if a.checkUpdates {
		cmds = append(cmds, checkVersion(a.version))
	}
	if a.view == viewAuth {
		cmds = append(cmds, a.auth.Init())
	} else {
		cmds = append(cmds, a.dashboard.Init(), a.settings.Init())
	}
	return tea.Batch(cmds...)
}

// resize forwards the current body size to every screen.
func (a App) resize() App {
	if a.width == 0 && a.height == 0 {
		return a
	}
	body := tea.WindowSizeMsg{Width: a.width, Height: max(a.height-chromeLines, 1)}
	a.auth, _ = a.auth.Update(body)
	a.dashboard, _ = a.dashboard.Update(body)
	a.posts, _ = a.posts.Update(body)
	a.form, _ = a.form.Update(body)
	a.settings, _ = a.settings.Update(body)
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.resize(), nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case toastsChangedMsg:
		return a, nil

	case versionCheckMsg:
		if msg.hasUpdate {
			a.notify.info(fmt.Sprintf("blogdash %s is available", msg.latestVersion))
		}
		return a, nil

	case authResultMsg:
		a.auth, _ = a.auth.Update(msg)
		if msg.err != nil || msg.resp == nil {
			return a, nil
		}
		return a.completeSignIn(msg)

	case logoutMsg:
		return a.logout()

	case openPostMsg:
		a.view = viewPosts
		var cmd tea.Cmd
		a.posts, cmd = a.posts.open(msg.id)
		if len(a.posts.posts) == 0 {
			return a, tea.Batch(a.posts.load(), cmd)
		}
		return a, cmd

	case editPostMsg:
		a.form = a.form.edit(msg.post)
		a.view = viewForm
		return a, nil

	case postSavedMsg:
		a.form, _ = a.form.Update(msg)
		if msg.err != nil {
			return a, nil
		}
		if msg.created {
			a.notify.success("Blog post created successfully!")
		} else {
			a.notify.success("Blog post updated successfully!")
		}
		a.form = a.form.reset()
		a.view = viewPosts
		a.posts.detail = false
		a.posts.current = nil
		a.posts.loading = true
		a.dashboard.loading = true
		return a, tea.Batch(a.posts.load(), a.dashboard.load())

	case postDeletedMsg:
		var cmd tea.Cmd
		a.posts, cmd = a.posts.Update(msg)
		if msg.err != nil {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.dashboard.load())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(a.helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if a.helpCursor < len(a.helpItems) {
					if err := browser.Open(a.helpItems[a.helpCursor].url); err != nil {
						a.notify.failMsg(fmt.Sprintf("open failed: %v", err))
					}
				}
			}
			return a, nil
		}

		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "x":
				if n, ok := a.toasts.Newest(); ok {
					a.toasts.Dismiss(n.ID)
				}
				return a, nil
			case "X":
				a.toasts.Clear()
				return a, nil
			case "1":
				return a.switchTo(viewDashboard)
			case "2":
				return a.switchTo(viewPosts)
			case "3":
				return a.switchTo(viewForm)
			case "4":
				return a.switchTo(viewSettings)
			}
		} else if msg.String() == "esc" && a.view == viewForm {
			back := viewDashboard
			if a.form.editID != "" {
				back = viewPosts
			}
			a.form = a.form.reset()
			a.view = back
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewPosts:
		a.posts, cmd = a.posts.Update(msg)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return a, cmd
}

func (a App) switchTo(v view) (App, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.log.Debug().Int("from", int(a.view)).Int("to", int(v)).Msg("switch view")
	a.view = v
	switch v {
	case viewDashboard:
		a.dashboard.loading = true
		return a, a.dashboard.Init()
	case viewPosts:
		a.posts.loading = true
		return a, a.posts.Init()
	case viewForm:
		if a.form.editID != "" {
			a.form = a.form.reset()
		}
		return a, nil
	case viewSettings:
		a.settings.loading = true
		return a, a.settings.Init()
	}
	return a, nil
}

func (a App) completeSignIn(msg authResultMsg) (tea.Model, tea.Cmd) {
	var s *session.Session
	if a.store != nil {
		saved, err := a.store.Save(*msg.resp, msg.email)
		if err != nil {
			a.log.Error().Err(err).Msg("save session")
			a.notify.warn("Signed in, but the session could not be saved")
		}
		s = saved
	}
	if s == nil {
		s = &session.Session{Token: msg.resp.Token, Role: msg.resp.Role, Email: msg.email}
	}
	if a.client != nil {
		a.client.SetToken(s.Token)
	}

	switch {
	case msg.signUp:
		a.notify.success("Account created! Welcome to the dashboard.")
	case msg.resp.Name != "":
		a.notify.success(fmt.Sprintf("Welcome back, %s! Logging you in...", msg.resp.Name))
	default:
		a.notify.success("Welcome back! Logging you in...")
	}

	a.auth = a.auth.reset()
	a = a.signIn(s)
	a.log.Info().Str("email", s.Email).Str("role", s.Role).Msg("signed in")
	return a, tea.Batch(a.dashboard.Init(), a.settings.Init())
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if a.store != nil {
		if err := a.store.Clear(); err != nil {
			a.log.Error().Err(err).Msg("clear session")
		}
	}
	if a.client != nil {
		a.client.SetToken("")
	}
	a.toasts.Clear()
	a.auth = a.auth.reset()
	a.form = a.form.reset()
	a = a.signIn(nil)
	a.log.Info().Msg("signed out")
	return a, a.auth.Init()
}

func (a App) isEditing() bool {
	switch a.view {
	case viewAuth, viewForm:
		return true
	case viewPosts:
		return a.posts.isEditing()
	case viewSettings:
		return a.settings.changing
	}
	return false
}

func (a App) busy() bool {
	switch a.view {
	case viewAuth:
		return a.auth.submitting
	case viewDashboard:
		return a.dashboard.loading
	case viewPosts:
		return a.posts.loading || a.posts.busy
	case viewForm:
		return a.form.submitted
	case viewSettings:
		return a.settings.loading || a.settings.saving
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	var identity string
	if a.session != nil {
		parts := []string{}
		if a.session.Email != "" {
			parts = append(parts, metaStyle.Render(a.session.Email))
		}
		if b := roleBadge(a.session.Role); b != "" {
			parts = append(parts, b)
		}
		identity = strings.Join(parts, " ")
	}
	if a.busy() {
		identity = strings.TrimSpace(identity + " " + a.spinner.View())
	}
	header += "\n" + center(identity, a.width)

	var tabs string
	if a.view != viewAuth {
		tabs = a.tabBar()
	}

	var body, help string
	switch a.view {
	case viewAuth:
		body = a.auth.View()
		help = helpBar("tab", "next field", "enter", "submit", "ctrl+r", "sign in/up", "ctrl+c", "quit")
	case viewDashboard:
		body = a.dashboard.View()
		help = helpBar("1-4", "tabs", "j/k", "nav", "enter", "open", "r", "refresh", "x", "dismiss", "?", "help", "q", "quit")
	case viewPosts:
		body = a.posts.View()
		help = a.posts.helpKeys()
	case viewForm:
		body = a.form.View()
		help = helpBar("tab", "next", "h/l", "category", "ctrl+s", "save", "esc", "cancel")
	case viewSettings:
		body = a.settings.View()
		help = a.settings.helpKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpItems, a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}

	toasts := renderToasts(a.toasts.Display(), a.maxVisible, a.width)
	if toasts != "" {
		body = toasts + "\n" + body
	}
	body = strings.TrimRight(truncateToHeight(body, a.height-chromeLines), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabs, body, help)
}

func (a App) tabBar() string {
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	newName := "New"
	if a.form.editID != "" {
		newName = "Edit"
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Posts", viewPosts},
		{"3", newName, viewForm},
		{"4", "Settings", viewSettings},
	}

	colWidth := a.width / len(tabs)
	var b strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		w := lipgloss.Width(label)
		left := max((colWidth-w)/2, 0)
		right := max(colWidth-w-left, 0)
		b.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}
	return b.String()
}

func center(s string, width int) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}

// Run starts the program and re-renders whenever the toast set changes.
func Run(app App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	cancel := watchToasts(app.toasts, p.Send)
	defer cancel()

	_, err := p.Run()
	return err
}

// watchToasts forwards every change on m, expiry included, to send as a
// toastsChangedMsg. Toasts are also raised from inside Update, where a
// blocking send would deadlock the event loop.
func watchToasts(m *toast.Manager, send func(tea.Msg)) (cancel func()) {
	return m.Subscribe(func() {
		go send(toastsChangedMsg{})
	})
}
