package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/internal/browser"
	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeletePost
	confirmDeleteComment
)

type postsLoadedMsg struct {
	posts []domain.Post
	err   error
}

// postLoadedMsg carries a single post fetched for the detail view. id is
// the post that was requested.
type postLoadedMsg struct {
	id   string
	post *domain.Post
	err  error
}

// postChangedMsg is the result of a like, comment or comment delete on
// post id.
type postChangedMsg struct {
	id   string
	post *domain.Post
	ok   string // success toast text
	err  error
}

type postDeletedMsg struct {
	id      string
	message string
	err     error
}

// editPostMsg asks the App to open the form prefilled with post.
type editPostMsg struct {
	post domain.Post
}

type copyResultMsg struct{ err error }

type openResultMsg struct{ err error }

type postsModel struct {
	client   *client.Client
	notify   notifier
	author   string // prefill for new comments
	posts    []domain.Post
	cursor   int
	search   string
	editing  bool // typing in search
	category string
	sortBy   domain.SortOrder
	loading  bool

	detail        bool
	openID        string // post the detail view shows or is loading
	current       *domain.Post
	rendered      string // glamour output for current at renderWidth
	renderWidth   int
	scroll        int
	commentCursor int
	composing     bool
	commentText   string
	confirm       confirmKind
	busy          bool

	width  int
	height int
}

func newPostsModel(c *client.Client, n notifier) postsModel {
	return postsModel{
		client:  c,
		notify:  n,
		sortBy:  domain.SortNewest,
		loading: true,
	}
}

func (m postsModel) Init() tea.Cmd {
	return m.load()
}

func (m postsModel) load() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		posts, err := c.ListPosts(context.Background())
		return postsLoadedMsg{posts: posts, err: err}
	}
}

// open fetches a post by id and shows it in the detail view.
func (m postsModel) open(id string) (postsModel, tea.Cmd) {
	m.detail = true
	m.openID = id
	m.current = nil
	m.busy = false
	m.rendered = ""
	m.scroll = 0
	m.commentCursor = 0
	m.confirm = confirmNone
	m.composing = false
	c := m.client
	if c == nil {
		return m, nil
	}
	return m, func() tea.Msg {
		p, err := c.GetPost(context.Background(), id)
		return postLoadedMsg{id: id, post: p, err: err}
	}
}

// showing reports whether a reply for post id still belongs on screen.
func (m postsModel) showing(id string) bool {
	return m.detail && id != "" && id == m.openID
}

// isEditing reports whether keys are consumed as text.
func (m postsModel) isEditing() bool {
	return m.editing || m.composing || m.confirm != confirmNone
}

// visible returns the posts after search, category filter and sort.
func (m postsModel) visible() []domain.Post {
	q := strings.ToLower(strings.TrimSpace(m.search))
	out := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		if m.category != "" && p.Category != m.category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Author), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		out = append(out, p)
	}
	domain.SortPosts(out, m.sortBy)
	return out
}

func (m postsModel) selected() (domain.Post, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Post{}, false
	}
	return v[m.cursor], true
}

func (m postsModel) Update(msg tea.Msg) (postsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.current != nil {
			m = m.render()
		}
		return m, nil

	case postsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.notify.fail(msg.err)
			return m, nil
		}
		m.posts = msg.posts
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case postLoadedMsg:
		if !m.showing(msg.id) {
			return m, nil
		}
		if msg.err != nil {
			m.detail = false
			m.notify.fail(msg.err)
			return m, nil
		}
		m.current = msg.post
		m.replace(*msg.post)
		return m.render(), nil

	case postChangedMsg:
		if !m.showing(msg.id) {
			// The action still happened; only the view has moved on.
			if msg.err != nil {
				m.notify.fail(msg.err)
				return m, nil
			}
			if msg.post != nil {
				m.replace(*msg.post)
			}
			if msg.ok != "" {
				m.notify.success(msg.ok)
			}
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.notify.fail(msg.err)
			return m, nil
		}
		if msg.post != nil {
			m.current = msg.post
			m.replace(*msg.post)
			m = m.render()
			if m.commentCursor >= len(m.current.Comments) {
				m.commentCursor = max(len(m.current.Comments)-1, 0)
			}
		}
		if msg.ok != "" {
			m.notify.success(msg.ok)
		}
		return m, nil

	case postDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.notify.fail(msg.err)
			return m, nil
		}
		text := msg.message
		if text == "" {
			text = "Post deleted successfully"
		}
		m.notify.success(text)
		m.detail = false
		m.current = nil
		m.loading = true
		return m, m.load()

	case copyResultMsg:
		if msg.err != nil {
			m.notify.failMsg(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.notify.info("Copied to clipboard")
		}
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.notify.failMsg(fmt.Sprintf("open failed: %v", msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		if m.editing {
			return m.updateSearch(msg)
		}
		if m.composing {
			return m.updateCompose(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// replace swaps the cached list copy of p so the list reflects fresh data.
func (m *postsModel) replace(p domain.Post) {
	for i := range m.posts {
		if m.posts[i].ID == p.ID {
			m.posts[i] = p
			return
		}
	}
}

func (m postsModel) updateSearch(msg tea.KeyMsg) (postsModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
	case "esc":
		m.editing = false
		m.search = ""
	default:
		m.search = editKey(m.search, msg, maxInputLen)
	}
	m.cursor = 0
	return m, nil
}

func (m postsModel) updateList(msg tea.KeyMsg) (postsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.editing = true
		m.search = ""
		m.cursor = 0
	case "t":
		m.category = nextCategory(m.category)
		m.cursor = 0
	case "s":
		m.sortBy = nextSort(m.sortBy)
		m.cursor = 0
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if p, ok := m.selected(); ok {
			return m.open(p.ID)
		}
	case "e":
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return editPostMsg{post: p} }
		}
	case "D":
		if _, ok := m.selected(); ok {
			m.confirm = confirmDeletePost
		}
	}
	return m, nil
}

func (m postsModel) updateDetail(msg tea.KeyMsg) (postsModel, tea.Cmd) {
	if m.current == nil {
		if msg.String() == "esc" {
			m.detail = false
		}
		return m, nil
	}
	p := *m.current
	c := m.client

	switch msg.String() {
	case "esc":
		m.detail = false
		m.current = nil
		m.busy = false
	case "j", "down":
		if m.commentCursor < len(p.Comments)-1 {
			m.commentCursor++
		}
	case "k", "up":
		if m.commentCursor > 0 {
			m.commentCursor--
		}
	case "ctrl+d", "pgdown":
		m.scroll += max(m.height/2, 1)
	case "ctrl+u", "pgup":
		m.scroll = max(m.scroll-max(m.height/2, 1), 0)
	case "l":
		if m.busy || c == nil {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			updated, err := c.LikePost(context.Background(), p.ID)
			return postChangedMsg{id: p.ID, post: updated, ok: "Liked!", err: err}
		}
	case "c":
		m.composing = true
		m.commentText = ""
	case "d":
		if len(p.Comments) > 0 {
			m.confirm = confirmDeleteComment
		}
	case "D":
		m.confirm = confirmDeletePost
	case "e":
		return m, func() tea.Msg { return editPostMsg{post: p} }
	case "y":
		text := p.Content
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(text)}
		}
	case "o":
		if p.Image == "" {
			m.notify.info("This post has no image")
			return m, nil
		}
		if !domain.ValidHTTPURL(p.Image) {
			m.notify.warn("Image URL is not a web link")
			return m, nil
		}
		url := p.Image
		return m, func() tea.Msg {
			return openResultMsg{err: browser.Open(url)}
		}
	case "r":
		return m.open(p.ID)
	}
	return m, nil
}

func (m postsModel) updateCompose(msg tea.KeyMsg) (postsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.commentText = ""
	case "enter":
		in := domain.CommentInput{
			User: m.author,
			Text: strings.TrimSpace(m.commentText),
		}
		if in.User == "" {
			in.User = "Anonymous"
		}
		if err := in.Validate(); err != nil {
			m.notify.fail(err)
			return m, nil
		}
		if m.current == nil || m.client == nil {
			return m, nil
		}
		m.composing = false
		m.commentText = ""
		m.busy = true
		c, id := m.client, m.current.ID
		return m, func() tea.Msg {
			updated, err := c.AddComment(context.Background(), id, in)
			return postChangedMsg{id: id, post: updated, ok: "Comment added", err: err}
		}
	default:
		m.commentText = editKey(m.commentText, msg, maxInputLen)
	}
	return m, nil
}

func (m postsModel) updateConfirm(msg tea.KeyMsg) (postsModel, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone
	if msg.String() != "y" || m.client == nil {
		return m, nil
	}
	c := m.client

	switch kind {
	case confirmDeletePost:
		var p domain.Post
		if m.detail && m.current != nil {
			p = *m.current
		} else if sel, ok := m.selected(); ok {
			p = sel
		} else {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			text, err := c.DeletePost(context.Background(), p.ID)
			return postDeletedMsg{id: p.ID, message: text, err: err}
		}

	case confirmDeleteComment:
		if m.current == nil || m.commentCursor >= len(m.current.Comments) {
			return m, nil
		}
		postID := m.current.ID
		commentID := m.current.Comments[m.commentCursor].ID
		m.busy = true
		return m, func() tea.Msg {
			resp, err := c.DeleteComment(context.Background(), postID, commentID)
			if err != nil {
				return postChangedMsg{id: postID, err: err}
			}
			ok := resp.Message
			if ok == "" {
				ok = "Comment deleted"
			}
			post := resp.Post
			return postChangedMsg{id: postID, post: &post, ok: ok}
		}
	}
	return m, nil
}

// render refreshes the cached markdown for the current post.
func (m postsModel) render() postsModel {
	if m.current == nil {
		return m
	}
	w := max(min(m.width-4, 100), 20)
	m.renderWidth = w
	m.rendered = renderMarkdown(m.current.Content, w)
	return m
}

func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}
	out, err := r.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}
	return strings.Trim(out, "\n")
}

func nextCategory(cur string) string {
	if cur == "" {
		return domain.Categories[0]
	}
	for i, c := range domain.Categories {
		if c == cur && i+1 < len(domain.Categories) {
			return domain.Categories[i+1]
		}
	}
	return ""
}

func nextSort(cur domain.SortOrder) domain.SortOrder {
	for i, s := range domain.SortOrders {
		if s == cur {
			return domain.SortOrders[(i+1)%len(domain.SortOrders)]
		}
	}
	return domain.SortNewest
}

func (m postsModel) helpKeys() string {
	switch {
	case m.confirm != confirmNone:
		return helpBar("y", "confirm", "any", "cancel")
	case m.editing:
		return helpBar("enter", "apply", "esc", "clear")
	case m.composing:
		return helpBar("enter", "post", "esc", "cancel")
	case m.detail:
		return helpBar("j/k", "comments", "l", "like", "c", "comment", "d", "delete comment", "e", "edit", "y", "copy", "o", "image", "esc", "back")
	default:
		return helpBar("1-4", "tabs", "j/k", "nav", "/", "search", "t", "category", "s", "sort", "e", "edit", "D", "delete", "?", "help")
	}
}

func (m postsModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder

	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}

	filter := "all"
	fs := dimStyle
	if m.category != "" {
		filter = m.category
		fs = CategoryStyle(m.category)
	}
	b.WriteString("   " + fs.Render(filter) + " " + helpKeyStyle.Render("t"))
	b.WriteString("   " + searchStyle.Render(string(m.sortBy)+"↑") + " " + helpKeyStyle.Render("s") + "\n")

	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(m.width-2, 4))) + "\n")

	if m.confirm == confirmDeletePost {
		if p, ok := m.selected(); ok {
			b.WriteString(" " + warnStyle.Render(fmt.Sprintf("Are you sure you want to delete %q? (y/n)", truncStr(p.Title, 40))) + "\n")
		}
	}

	if m.loading && len(m.posts) == 0 {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}

	posts := m.visible()
	if len(posts) == 0 {
		b.WriteString(" " + dimStyle.Render("no posts found"))
		return b.String()
	}

	maxVisible := max(m.height-5, 3)
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(posts) && i < start+maxVisible; i++ {
		p := posts[i]
		cursor := "  "
		ts := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			ts = normalStyle.Bold(true)
		}
		dot := CategoryStyle(p.Category).Render("●") + " "

		var right []string
		if m.width >= 70 {
			right = append(right, metaStyle.Render(fmt.Sprintf("%-12s", truncStr(p.Author, 12))))
		}
		right = append(right,
			likeStyle.Render(fmt.Sprintf("♥%-4s", formatNum(p.Likes))),
			metaStyle.Render(fmt.Sprintf("%3d cmt", p.CommentCount())),
		)
		rightStr := strings.Join(right, " ")

		titleWidth := max(m.width-4-lipgloss.Width(rightStr)-1, 10)
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(cleanTitle(p.Title), titleWidth))

		line := cursor + dot + ts.Render(title) + " " + rightStr
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}

func (m postsModel) viewDetail() string {
	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")

	if m.current == nil {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	p := m.current

	b.WriteString(" " + titleStyle.Render(cleanTitle(p.Title)) + "\n")
	meta := " " + CategoryStyle(p.Category).Render(p.Category) +
		metaStyle.Render(" · "+p.Author) +
		metaStyle.Render(" · "+formatTime(p.CreatedAt)) +
		metaStyle.Render(" · ") + likeStyle.Render("♥ "+formatNum(p.Likes))
	b.WriteString(meta + "\n")
	if p.Image != "" {
		b.WriteString(" " + metaStyle.Render("image: "+truncStr(p.Image, max(m.width-10, 20))) + "\n")
	}

	switch m.confirm {
	case confirmDeletePost:
		b.WriteString(" " + warnStyle.Render("Are you sure you want to delete this blog post? (y/n)") + "\n")
	case confirmDeleteComment:
		b.WriteString(" " + warnStyle.Render("Are you sure you want to delete this comment? (y/n)") + "\n")
	}

	// Content takes what the comments leave over, scrolled by ctrl+d/ctrl+u.
	comments := m.viewComments()
	commentLines := strings.Count(comments, "\n") + 1
	contentLines := max(m.height-strings.Count(b.String(), "\n")-commentLines-1, 3)

	lines := strings.Split(m.rendered, "\n")
	scroll := min(m.scroll, max(len(lines)-contentLines, 0))
	end := min(scroll+contentLines, len(lines))
	b.WriteString(strings.Join(lines[scroll:end], "\n") + "\n")
	if end < len(lines) {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("… %d more lines (ctrl+d)", len(lines)-end)) + "\n")
	}

	b.WriteString(comments)
	return truncateToHeight(b.String(), m.height)
}

func (m postsModel) viewComments() string {
	p := m.current
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("COMMENTS (%d)", p.CommentCount())) + "\n")

	if m.composing {
		b.WriteString(renderField(m.commentAuthor(), m.commentText, "write a comment...", true) + "\n")
	}

	if len(p.Comments) == 0 && !m.composing {
		b.WriteString(" " + dimStyle.Render("no comments yet. press c to add one"))
		return b.String()
	}

	maxShown := 5
	start := 0
	if m.commentCursor >= maxShown {
		start = m.commentCursor - maxShown + 1
	}
	for i := start; i < len(p.Comments) && i < start+maxShown; i++ {
		c := p.Comments[i]
		cursor := "  "
		if i == m.commentCursor {
			cursor = accentStyle.Render("▸") + " "
		}
		who := accentStyle.Render(c.User)
		text := commentTextStyle.Render(truncStr(strings.ReplaceAll(c.Text, "\n", " "), max(m.width-30, 20)))
		when := commentTimeStyle.Render(formatTime(c.CreatedAt))
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, who, text, when)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m postsModel) commentAuthor() string {
	if m.author == "" {
		return "Anonymous"
	}
	return m.author
}
