package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/pkg/client"
	"github.com/naveenspark/blogdash/pkg/domain"
)

const toastWidth = 50

// toastsChangedMsg is sent by the toast manager subscription so the program
// re-renders when a toast expires between key presses.
type toastsChangedMsg struct{}

// notifier is the toast handle shared by every screen. It wraps the one
// Manager so error toasts pick up the configured error lifetime.
type notifier struct {
	toasts      *toast.Manager
	errLifetime time.Duration
}

func (n notifier) success(msg string) {
	if n.toasts != nil {
		n.toasts.Success(msg)
	}
}

func (n notifier) info(msg string) {
	if n.toasts != nil {
		n.toasts.Info(msg)
	}
}

func (n notifier) warn(msg string) {
	if n.toasts != nil {
		n.toasts.Warning(msg)
	}
}

func (n notifier) failMsg(msg string) {
	if n.toasts != nil {
		n.toasts.Error(msg, n.errLifetime)
	}
}

func (n notifier) fail(err error) {
	n.failMsg(errText(err))
}

// errText picks the most useful single line for a toast: the API's own
// message, the first field error, or the error text.
func errText(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return client.Message(err)
	}
	return domain.FirstError(err)
}

// renderToasts renders the newest maxVisible toasts stacked vertically,
// oldest at top, right-aligned within width.
func renderToasts(items []toast.Item, maxVisible, width int) string {
	if len(items) == 0 {
		return ""
	}
	if maxVisible > 0 && len(items) > maxVisible {
		items = items[len(items)-maxVisible:]
	}

	w := toastWidth
	if width > 0 && width-2 < w {
		w = max(width-2, 10)
	}

	rendered := make([]string, 0, len(items))
	for _, it := range items {
		rendered = append(rendered, renderToast(it, w))
	}
	block := strings.Join(rendered, "\n")
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func renderToast(it toast.Item, width int) string {
	icon, style := toastStyle(it.Severity)
	content := icon + " " + it.Message
	return style.Width(width).Render(content)
}
