package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// Post is a blog article as returned by the blog API.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	Image     string    `json:"image,omitempty"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a reader comment on a post.
type Comment struct {
	ID        string    `json:"_id,omitempty"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Categories are the post categories offered by the editor.
var Categories = []string{
	"Technology",
	"Travel",
	"Food",
	"Health",
	"Lifestyle",
	"Business",
	"Other",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory returns true if the given category is a known post category.
func ValidCategory(category string) bool {
	return categorySet[category]
}

// PostInput is the body of a create request.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Image    string `json:"image"`
}

// Validate checks required fields, the category and the image URL.
func (p PostInput) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("title", p.Title, required),
		criterio.Run("content", p.Content, required),
		criterio.Run("category", p.Category, category),
		criterio.Run("author", p.Author, required),
		criterio.Run("image", p.Image, optionalHTTPURL),
	)
}

// PostPatch is the body of a partial update. Empty fields are left out of
// the request and keep their stored value.
type PostPatch struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
	Author   string `json:"author,omitempty"`
	Image    string `json:"image,omitempty"`
}

// PatchFrom builds a patch carrying only the non-blank fields of in.
func PatchFrom(in PostInput) PostPatch {
	return PostPatch{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Category: strings.TrimSpace(in.Category),
		Author:   strings.TrimSpace(in.Author),
		Image:    strings.TrimSpace(in.Image),
	}
}

// Empty reports whether the patch would change nothing.
func (p PostPatch) Empty() bool {
	return p == PostPatch{}
}

// Validate checks the fields that are set.
func (p PostPatch) Validate() error {
	if p.Empty() {
		return criterio.NewFieldErrors("post", fmt.Errorf("nothing to update"))
	}
	var errs criterio.FieldErrorsBuilder
	if p.Category != "" {
		if err := category(p.Category); err != nil {
			errs = errs.Append("category", err)
		}
	}
	if err := optionalHTTPURL(p.Image); err != nil {
		errs = errs.Append("image", err)
	}
	return errs.ToError()
}

// CommentInput is the body of an add-comment request.
type CommentInput struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Validate checks that both fields are present.
func (c CommentInput) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("user", c.User, required),
		criterio.Run("text", c.Text, required),
	)
}

// CommentCount returns the number of comments on p.
func (p Post) CommentCount() int {
	return len(p.Comments)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func category(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	if !ValidCategory(s) {
		return fmt.Errorf("unknown category %q", s)
	}
	return nil
}

func optionalHTTPURL(s string) error {
	if s == "" {
		return nil
	}
	return httpURL(s)
}

// httpURL requires an absolute http or https URL with a host.
func httpURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// ValidHTTPURL reports whether s is an absolute http(s) URL.
func ValidHTTPURL(s string) bool {
	return httpURL(s) == nil
}
