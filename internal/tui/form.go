package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

type formField int

const (
	fieldTitle formField = iota
	fieldCategory
	fieldAuthor
	fieldImage
	fieldContent
	numFields
)

// postSavedMsg is the result of a create or update.
type postSavedMsg struct {
	post    *domain.Post
	created bool
	err     error
}

type formModel struct {
	client    *client.Client
	notify    notifier
	fields    [numFields]string
	focus     formField
	editID    string // empty when creating
	submitted bool
	width     int
	height    int
}

func newFormModel(c *client.Client, n notifier) formModel {
	m := formModel{client: c, notify: n}
	m.fields[fieldCategory] = domain.Categories[0]
	return m
}

// edit returns a form prefilled with p that updates it on submit.
func (m formModel) edit(p domain.Post) formModel {
	f := newFormModel(m.client, m.notify)
	f.width, f.height = m.width, m.height
	f.editID = p.ID
	f.fields[fieldTitle] = p.Title
	if p.Category != "" {
		f.fields[fieldCategory] = p.Category
	}
	f.fields[fieldAuthor] = p.Author
	f.fields[fieldImage] = p.Image
	f.fields[fieldContent] = p.Content
	return f
}

// reset clears the form back to create mode.
func (m formModel) reset() formModel {
	f := newFormModel(m.client, m.notify)
	f.width, f.height = m.width, m.height
	return f
}

func (m formModel) input() domain.PostInput {
	return domain.PostInput{
		Title:    strings.TrimSpace(m.fields[fieldTitle]),
		Content:  strings.TrimSpace(m.fields[fieldContent]),
		Category: m.fields[fieldCategory],
		Author:   strings.TrimSpace(m.fields[fieldAuthor]),
		Image:    strings.TrimSpace(m.fields[fieldImage]),
	}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case postSavedMsg:
		m.submitted = false
		if msg.err != nil {
			m.notify.fail(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFields) % numFields
	case "enter":
		if m.focus == fieldContent {
			m.fields[fieldContent] = editRuneLimit(m.fields[fieldContent], "\n", maxContentLen)
		} else {
			m.focus = (m.focus + 1) % numFields
		}
	default:
		if m.focus == fieldCategory {
			switch msg.String() {
			case "h", "left":
				m.fields[fieldCategory] = cycleCategory(m.fields[fieldCategory], -1)
			case "l", "right", " ":
				m.fields[fieldCategory] = cycleCategory(m.fields[fieldCategory], 1)
			}
			return m, nil
		}
		limit := maxInputLen
		if m.focus == fieldContent {
			limit = maxContentLen
		}
		m.fields[m.focus] = editKey(m.fields[m.focus], msg, limit)
	}
	return m, nil
}

func cycleCategory(cur string, step int) string {
	n := len(domain.Categories)
	idx := 0
	for i, c := range domain.Categories {
		if c == cur {
			idx = i
			break
		}
	}
	return domain.Categories[((idx+step)%n+n)%n]
}

func (m formModel) submit() (formModel, tea.Cmd) {
	in := m.input()
	c := m.client

	if m.editID == "" {
		if in.Title == "" || in.Content == "" || in.Author == "" {
			m.notify.failMsg("Please fill in all required fields")
			return m, nil
		}
		if err := in.Validate(); err != nil {
			m.notify.fail(err)
			return m, nil
		}
		if c == nil {
			return m, nil
		}
		m.submitted = true
		return m, func() tea.Msg {
			p, err := c.CreatePost(context.Background(), in)
			return postSavedMsg{post: p, created: true, err: err}
		}
	}

	patch := domain.PatchFrom(in)
	if err := patch.Validate(); err != nil {
		m.notify.fail(err)
		return m, nil
	}
	if c == nil {
		return m, nil
	}
	m.submitted = true
	id := m.editID
	return m, func() tea.Msg {
		p, err := c.UpdatePost(context.Background(), id, patch)
		return postSavedMsg{post: p, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	heading := "NEW POST"
	if m.editID != "" {
		heading = "EDIT POST"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(heading) + "\n\n")

	labels := [numFields]string{"title", "category", "author", "image", "content"}
	placeholders := [numFields]string{"a catchy headline", "", "your name", "https://... (optional)", "markdown body"}

	for i := formField(0); i < numFields; i++ {
		switch i {
		case fieldCategory:
			cursor := " "
			style := metaStyle
			if i == m.focus {
				cursor = inputPromptStyle.Render(">")
				style = selectedStyle
			}
			v := m.fields[fieldCategory]
			fmt.Fprintf(&b, "%s %s %s  %s\n", cursor, style.Render("category:"),
				CategoryStyle(v).Render(v), metaStyle.Render("(h/l to cycle)"))
		case fieldContent:
			if m.fields[i] == "" {
				b.WriteString(renderField(labels[i], "", placeholders[i], i == m.focus) + "\n")
			} else {
				cursor := " "
				style := metaStyle
				if i == m.focus {
					cursor = inputPromptStyle.Render(">")
					style = selectedStyle
				}
				b.WriteString(cursor + " " + style.Render("content:") + "\n")
				body := m.fields[i]
				if i == m.focus {
					body += accentStyle.Render("█")
				}
				lines := max(m.height-10, 3)
				for _, line := range strings.Split(lastLines(body, lines), "\n") {
					b.WriteString("   " + normalStyle.Render(line) + "\n")
				}
			}
		default:
			b.WriteString(renderField(labels[i], m.fields[i], placeholders[i], i == m.focus) + "\n")
		}
	}

	b.WriteString("\n")
	if m.submitted {
		if m.editID != "" {
			b.WriteString(" " + dimStyle.Render("saving..."))
		} else {
			b.WriteString(" " + dimStyle.Render("publishing..."))
		}
	}

	return truncateToHeight(b.String(), m.height)
}
