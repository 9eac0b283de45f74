package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

type dashboardLoadedMsg struct {
	posts []domain.Post
	err   error
}

// openPostMsg asks the App to show a post in the posts detail view.
type openPostMsg struct {
	id string
}

type dashboardModel struct {
	client  *client.Client
	notify  notifier
	summary domain.Summary
	loaded  bool
	loading bool
	cursor  int
	width   int
	height  int
}

func newDashboardModel(c *client.Client, n notifier) dashboardModel {
	return dashboardModel{
		client:  c,
		notify:  n,
		loading: true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		posts, err := c.ListPosts(context.Background())
		return dashboardLoadedMsg{posts: posts, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.notify.fail(msg.err)
			return m, nil
		}
		m.summary = domain.Summarize(msg.posts, domain.DashboardRecent)
		m.loaded = true
		if m.cursor >= len(m.summary.Recent) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.summary.Recent)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		case "enter":
			if m.cursor < len(m.summary.Recent) {
				id := m.summary.Recent[m.cursor].ID
				return m, func() tea.Msg { return openPostMsg{id: id} }
			}
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("OVERVIEW") + "\n")

	if m.loading && !m.loaded {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}

	boxes := []string{
		statBox("posts", m.summary.Posts),
		statBox("comments", m.summary.Comments),
		statBox("likes", m.summary.Likes),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...) + "\n\n")

	b.WriteString(" " + sectionHeaderStyle.Render("RECENT POSTS") + "\n")
	if len(m.summary.Recent) == 0 {
		b.WriteString(" " + dimStyle.Render("no posts yet. press 3 to write one"))
		return b.String()
	}

	for i, p := range m.summary.Recent {
		cursor := "  "
		ts := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			ts = normalStyle.Bold(true)
		}
		dot := CategoryStyle(p.Category).Render("●") + " "

		right := metaStyle.Render(fmt.Sprintf("%-12s", truncStr(p.Author, 12))) + " " +
			likeStyle.Render(fmt.Sprintf("♥%-4s", formatNum(p.Likes))) + " " +
			commentTimeStyle.Render(formatTime(p.CreatedAt))

		titleWidth := max(m.width-4-lipgloss.Width(right)-1, 10)
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(cleanTitle(p.Title), titleWidth))

		line := cursor + dot + ts.Render(title) + " " + right
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
		if ex := excerpt(p.Content, max(m.width-6, 20)); ex != "" {
			b.WriteString("    " + commentTextStyle.Render(ex) + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}

func statBox(label string, n int) string {
	return statBoxStyle.Render(statValueStyle.Render(formatNum(n)) + "\n" + dimStyle.Render(label))
}
