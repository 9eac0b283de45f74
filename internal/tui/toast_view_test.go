package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/pkg/client"
)

func TestRenderToastsEmpty(t *testing.T) {
	if got := renderToasts(nil, 5, 80); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestRenderToastsKeepsNewest(t *testing.T) {
	var items []toast.Item
	for i := 1; i <= 5; i++ {
		items = append(items, toast.Item{ID: fmt.Sprint(i), Message: fmt.Sprintf("msg-%d", i), Severity: toast.SeverityInfo})
	}
	out := renderToasts(items, 3, 80)

	for _, gone := range []string{"msg-1", "msg-2"} {
		if strings.Contains(out, gone) {
			t.Errorf("%s should be hidden", gone)
		}
	}
	i3, i5 := strings.Index(out, "msg-3"), strings.Index(out, "msg-5")
	if i3 < 0 || i5 < 0 || i3 > i5 {
		t.Errorf("expected oldest visible first:\n%s", out)
	}
}

func TestRenderToastsNarrowWidth(t *testing.T) {
	items := []toast.Item{{ID: "a", Message: "saved", Severity: toast.SeveritySuccess}}
	out := renderToasts(items, 0, 20)
	if !strings.Contains(out, iconSuccess) || !strings.Contains(out, "saved") {
		t.Errorf("unexpected toast render %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(stripANSI(line))); w > 20 {
			t.Errorf("line wider than terminal: %d", w)
		}
	}
}

func TestErrText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", fmt.Errorf("client.GetPost: %w", &client.HTTPError{StatusCode: 404, Message: "Blog not found"}), "Blog not found"},
		{"field error", criterio.NewFieldErrors("title", errors.New("is required")), "title: is required"},
		{"plain error", errors.New("timeout"), "timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errText(tc.err); got != tc.want {
				t.Errorf("errText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNotifierErrorLifetime(t *testing.T) {
	n := notifier{toasts: toast.New(toast.WithDefaultLifetime(0)), errLifetime: time.Hour}
	n.info("hello")
	n.failMsg("broken")

	active := n.toasts.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(active))
	}
	if active[0].AutoDismiss() {
		t.Error("info should use the sticky default")
	}
	if active[1].Lifetime != time.Hour {
		t.Errorf("error lifetime = %v, want 1h", active[1].Lifetime)
	}
	n.toasts.Clear()
}

func TestNotifierNilManager(t *testing.T) {
	var n notifier
	n.success("ok")
	n.fail(errors.New("ignored"))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
