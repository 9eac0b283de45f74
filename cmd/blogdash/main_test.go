package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/blogdash/internal/session"
	"github.com/naveenspark/blogdash/pkg/domain"
)

func samplePosts() []domain.Post {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Post{
		{ID: "a1", Title: "Tacos   at\nnight", Category: "Food", Author: "Ada", Likes: 4, CreatedAt: now},
		{ID: "b2", Title: "Rust vs Go", Category: "Technology", Author: "Linus", Likes: 9,
			Comments: []domain.Comment{{User: "Bob", Text: "nice"}}, CreatedAt: now.Add(time.Hour)},
	}
}

func TestWritePostsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writePosts(&buf, samplePosts(), false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "COMMENTS") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Tacos at night") {
		t.Errorf("title should be flattened to one line: %q", lines[1])
	}
}

func TestWritePostsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writePosts(&buf, samplePosts(), true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(lines))
	}
	var got postLine
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "b2" || got.Comments != 1 || got.Likes != 9 {
		t.Errorf("unexpected line %+v", got)
	}
}

func TestFilterPosts(t *testing.T) {
	posts := samplePosts()
	if got := filterPosts(posts, ""); len(got) != 2 {
		t.Errorf("empty category should keep all, got %d", len(got))
	}
	got := filterPosts(posts, "Technology")
	if len(got) != 1 || got[0].ID != "b2" {
		t.Errorf("unexpected filter result %+v", got)
	}
	if posts[0].ID != "a1" {
		t.Error("filter must not reorder the input")
	}
}

func TestOneLine(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"a\n b\tc", 10, "a b c"},
		{"abcdefghij", 5, "abcd…"},
	}
	for _, tc := range tests {
		if got := oneLine(tc.in, tc.limit); got != tc.want {
			t.Errorf("oneLine(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	printSession(&buf, &session.Session{Email: "ada@example.com", Role: "admin"})
	out := buf.String()
	if !strings.Contains(out, "ada@example.com") || !strings.Contains(out, "admin") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "expires") {
		t.Error("zero expiry should be omitted")
	}
}

func TestPrintSignedOut(t *testing.T) {
	var buf bytes.Buffer
	printSignedOut(&buf)
	if !strings.Contains(buf.String(), "blogdash login") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}

func TestPrintUpdateAvailable(t *testing.T) {
	var buf bytes.Buffer
	printUpdateAvailable(&buf, "v1.0.0", "v1.1.0", "https://example.com/releases")
	for _, want := range []string{"v1.0.0", "v1.1.0", "https://example.com/releases"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in %q", want, buf.String())
		}
	}
}
