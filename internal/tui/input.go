package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// maxContentLen bounds the post body editor.
const maxContentLen = 20000

// editKey applies a key press to an inline text field. Pasted text is
// appended as a whole, clamped to limit runes.
func editKey(text string, msg tea.KeyMsg, limit int) string {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		room := limit - utf8.RuneCountInString(text)
		if room <= 0 {
			return text
		}
		runes := msg.Runes
		if len(runes) > room {
			runes = runes[:room]
		}
		return text + string(runes)
	}
	return editRuneLimit(text, msg.String(), limit)
}

// editRuneLimit processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
func editRuneLimit(text, key string, limit int) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case " ", "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= limit {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderField renders one labeled form line with a cursor block when focused.
func renderField(label, value, placeholder string, focused bool) string {
	cursor := " "
	style := metaStyle
	if focused {
		cursor = inputPromptStyle.Render(">")
		style = selectedStyle
	}
	shown := value
	switch {
	case value == "" && !focused:
		shown = inputPlaceholderStyle.Render(placeholder)
	case focused:
		shown = value + accentStyle.Render("█")
	}
	return cursor + " " + style.Render(label+":") + " " + shown
}

// lastLines returns at most n trailing lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
