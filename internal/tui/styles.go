package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/internal/toast"
)

// Shimmer animation for the BLOGDASH wordmark.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "B L O G D A S H" as a slow wave of indigo light.
// Deep indigo (#1e1b4b) -> bright periwinkle (#a5b4fc).
func renderShimmerLogo(frame int) string {
	const text = "BLOGDASH"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep:   (30, 27, 75)    #1e1b4b
		// Bright: (165, 180, 252) #a5b4fc
		r := clampByte(30 + b*(165-30))
		g := clampByte(27 + b*(180-27))
		bl := clampByte(75 + b*(252-75))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#818cf8")).
			Bold(true)

	likeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#818cf8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c7d2fe")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	commentTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9098a8"))

	commentTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#818cf8")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	statBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1e1e2a")).
			Padding(0, 2)

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	categoryColors = map[string]lipgloss.Color{
		"Technology": lipgloss.Color("#60a0e0"),
		"Travel":     lipgloss.Color("#3ecce4"),
		"Food":       lipgloss.Color("#f0944a"),
		"Health":     lipgloss.Color("#4ade80"),
		"Lifestyle":  lipgloss.Color("#c084e0"),
		"Business":   lipgloss.Color("#d4a844"),
		"Other":      lipgloss.Color("#8890a0"),
	}
)

// Toast styles, one per severity.
var (
	toastBaseStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			Padding(0, 1).
			Background(lipgloss.Color("#111118"))

	toastSuccessStyle = toastBaseStyle.
				BorderForeground(lipgloss.Color("#22c55e")).
				Foreground(lipgloss.Color("#86efac"))

	toastErrorStyle = toastBaseStyle.
			BorderForeground(lipgloss.Color("#ef4444")).
			Foreground(lipgloss.Color("#fca5a5"))

	toastWarningStyle = toastBaseStyle.
				BorderForeground(lipgloss.Color("#eab308")).
				Foreground(lipgloss.Color("#fde047"))

	toastInfoStyle = toastBaseStyle.
			BorderForeground(lipgloss.Color("#3b82f6")).
			Foreground(lipgloss.Color("#93c5fd"))
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "i"
)

// toastStyle returns the icon and style for a severity.
func toastStyle(s toast.Severity) (string, lipgloss.Style) {
	switch s {
	case toast.SeveritySuccess:
		return iconSuccess, toastSuccessStyle
	case toast.SeverityError:
		return iconError, toastErrorStyle
	case toast.SeverityWarning:
		return iconWarning, toastWarningStyle
	default:
		return iconInfo, toastInfoStyle
	}
}

// CategoryStyle returns a bold style colored for the given post category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// roleBadge returns "[admin]" or "[user]" colored by role.
func roleBadge(role string) string {
	if role == "" {
		return ""
	}
	style := dimStyle
	if role == "admin" {
		style = warnStyle
	}
	return style.Render("[" + role + "]")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries given as key, label pairs.
func helpBar(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a5b4fc")).
		Bold(true).
		Render("B L O G D A S H")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Write, edit and moderate the blog from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a5b4fc"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"blogdash", "Open the dashboard"},
		{"blogdash login", "Sign in with email and password"},
		{"blogdash register", "Create an account"},
		{"blogdash logout", "Clear your session"},
		{"blogdash posts", "List posts"},
		{"blogdash whoami", "Show the signed-in account"},
	}

	keys := []struct{ key, desc string }{
		{"1-4", "switch tabs"},
		{"x", "dismiss newest notification"},
		{"X", "clear all notifications"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix := "    "
			if i == cursor {
				label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
		}
	}
	return b.String()
}
