package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestDashboard() dashboardModel {
	m := newDashboardModel(nil, newTestNotifier())
	m.width = 100
	m.height = 40
	return m
}

func TestDashboardLoading(t *testing.T) {
	m := newTestDashboard()
	if m.Init() != nil {
		t.Error("expected no load without a client")
	}
	if !strings.Contains(m.View(), "loading...") {
		t.Error("expected loading text before the first load")
	}
}

func TestDashboardSummary(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(dashboardLoadedMsg{posts: samplePosts()})

	if m.summary.Posts != 3 || m.summary.Likes != 14 || m.summary.Comments != 2 {
		t.Errorf("unexpected summary %+v", m.summary)
	}
	if m.summary.Recent[0].ID != "p2" {
		t.Errorf("expected newest first, got %s", m.summary.Recent[0].ID)
	}
	out := m.View()
	for _, want := range []string{"OVERVIEW", "RECENT POSTS", "posts", "likes", "14"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDashboardEmpty(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(dashboardLoadedMsg{})
	if !strings.Contains(m.View(), "no posts yet") {
		t.Error("expected empty state")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestDashboardEnterOpensPost(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(dashboardLoadedMsg{posts: samplePosts()})
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want clamp at 2", m.cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(openPostMsg)
	if !ok || msg.id != m.summary.Recent[2].ID {
		t.Errorf("unexpected msg %+v", msg)
	}
}

func TestDashboardLoadError(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(dashboardLoadedMsg{err: errors.New("connection refused")})
	if m.loading {
		t.Error("expected loading cleared")
	}
	if got := newestToast(t, m.notify); got.Message != "connection refused" {
		t.Errorf("toast = %q", got.Message)
	}
}
