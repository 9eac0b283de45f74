package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/pkg/domain"
)

func TestCategoryStyleKnownCategory(t *testing.T) {
	for _, c := range domain.Categories {
		t.Run(c, func(t *testing.T) {
			rendered := CategoryStyle(c).Render(c)
			if !strings.Contains(rendered, c) {
				t.Errorf("CategoryStyle(%q).Render(%q) = %q, want to contain %q", c, c, rendered, c)
			}
			if _, ok := categoryColors[c]; !ok {
				t.Errorf("category %q has no color", c)
			}
		})
	}
}

func TestCategoryStyleUnknownFallback(t *testing.T) {
	rendered := CategoryStyle("Gardening").Render("Gardening")
	if !strings.Contains(rendered, "Gardening") {
		t.Errorf("CategoryStyle fallback did not render text: %q", rendered)
	}
}

func TestRoleBadge(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"admin", "[admin]"},
		{"user", "[user]"},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			if badge := roleBadge(tc.role); !strings.Contains(badge, tc.want) {
				t.Errorf("roleBadge(%q) = %q, want to contain %q", tc.role, badge, tc.want)
			}
		})
	}
	if badge := roleBadge(""); badge != "" {
		t.Errorf("roleBadge(\"\") = %q, want empty string", badge)
	}
}

func TestToastStyleIcons(t *testing.T) {
	tests := []struct {
		sev  toast.Severity
		icon string
	}{
		{toast.SeveritySuccess, iconSuccess},
		{toast.SeverityError, iconError},
		{toast.SeverityWarning, iconWarning},
		{toast.SeverityInfo, iconInfo},
		{toast.Severity("bogus"), iconInfo},
	}
	for _, tc := range tests {
		t.Run(string(tc.sev), func(t *testing.T) {
			icon, style := toastStyle(tc.sev)
			if icon != tc.icon {
				t.Errorf("toastStyle(%q) icon = %q, want %q", tc.sev, icon, tc.icon)
			}
			if !strings.Contains(style.Render("msg"), "msg") {
				t.Errorf("toastStyle(%q) did not render content", tc.sev)
			}
		})
	}
}

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpBarPairs(t *testing.T) {
	bar := helpBar("j/k", "nav", "enter", "open", "dangling")
	for _, want := range []string{"j/k", "nav", "enter", "open"} {
		if !strings.Contains(bar, want) {
			t.Errorf("helpBar missing %q: %q", want, bar)
		}
	}
	if strings.Contains(bar, "dangling") {
		t.Errorf("helpBar should drop an unpaired key: %q", bar)
	}
}

func TestHelpViewCursor(t *testing.T) {
	items := []helpItem{
		{label: "Releases", desc: "downloads", url: "https://example.com/r"},
		{label: "Blog API", desc: "api", url: "https://example.com/api"},
	}
	out := helpView(items, 1)
	if !strings.Contains(out, "> ") {
		t.Errorf("expected a cursor marker in help view")
	}
	for _, want := range []string{"Releases", "Blog API", "blogdash login", "dismiss newest notification"} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}

func TestShimmerLogoWidthStable(t *testing.T) {
	w := lipgloss.Width(renderShimmerLogo(0))
	for _, frame := range []int{1, 17, 500} {
		if got := lipgloss.Width(renderShimmerLogo(frame)); got != w {
			t.Errorf("frame %d width = %d, want %d", frame, got, w)
		}
	}
}

func TestClampByte(t *testing.T) {
	if clampByte(-3) != 0 || clampByte(300) != 255 || clampByte(12.7) != 12 {
		t.Error("clampByte did not clamp to [0,255]")
	}
}
