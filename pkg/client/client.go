package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/blogdash/pkg/domain"
)

const (
	DefaultBlogURL = "http://localhost:5000/api/blogs"
	DefaultAuthURL = "http://localhost:5000/api/auth"
	DefaultTimeout = 30 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BlogURL string
	AuthURL string
	Token   string
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Client talks to the blog API and the auth API.
type Client struct {
	blogURL    string
	authURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a new API client.
func New(opts Options) *Client {
	if opts.BlogURL == "" {
		opts.BlogURL = DefaultBlogURL
	}
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{
		blogURL: strings.TrimRight(opts.BlogURL, "/"),
		authURL: strings.TrimRight(opts.AuthURL, "/"),
		token:   opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log: log,
	}
}

// SetToken replaces the bearer token, e.g. after login or logout.
// It is safe to call while requests are in flight; they keep the token
// they started with.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ListPosts returns every post.
func (c *Client) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.get(ctx, c.blogURL, &posts); err != nil {
		return nil, fmt.Errorf("client.ListPosts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post with its comments.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := c.get(ctx, c.blogPath(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetPost: %w", err)
	}
	return &p, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, in domain.PostInput) (*domain.Post, error) {
	var p domain.Post
	if err := c.post(ctx, c.blogURL, in, &p); err != nil {
		return nil, fmt.Errorf("client.CreatePost: %w", err)
	}
	return &p, nil
}

// UpdatePost applies a partial update. Empty patch fields are not sent.
func (c *Client) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	var p domain.Post
	if err := c.doRequest(ctx, http.MethodPut, c.blogPath(id), patch, &p); err != nil {
		return nil, fmt.Errorf("client.UpdatePost: %w", err)
	}
	return &p, nil
}

// LikePost adds one like and returns the updated post.
func (c *Client) LikePost(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := c.doRequest(ctx, http.MethodPut, c.blogPath(id, "like"), nil, &p); err != nil {
		return nil, fmt.Errorf("client.LikePost: %w", err)
	}
	return &p, nil
}

// AddComment appends a comment and returns the updated post.
func (c *Client) AddComment(ctx context.Context, postID string, in domain.CommentInput) (*domain.Post, error) {
	var p domain.Post
	if err := c.post(ctx, c.blogPath(postID, "comments"), in, &p); err != nil {
		return nil, fmt.Errorf("client.AddComment: %w", err)
	}
	return &p, nil
}

// DeleteCommentResponse is returned by DeleteComment.
type DeleteCommentResponse struct {
	Message string      `json:"message"`
	Post    domain.Post `json:"blog"`
}

// DeleteComment removes a comment and returns the updated post.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) (*DeleteCommentResponse, error) {
	var resp DeleteCommentResponse
	if err := c.doRequest(ctx, http.MethodDelete, c.blogPath(postID, "comments", commentID), nil, &resp); err != nil {
		return nil, fmt.Errorf("client.DeleteComment: %w", err)
	}
	return &resp, nil
}

// DeletePost removes a post and returns the server's message.
func (c *Client) DeletePost(ctx context.Context, id string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doRequest(ctx, http.MethodDelete, c.blogPath(id), nil, &resp); err != nil {
		return "", fmt.Errorf("client.DeletePost: %w", err)
	}
	return resp.Message, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, c.authURL+"/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, c.authURL+"/register", reg, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// GetProfile returns the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, c.authURL+"/user/profile", &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdatePassword changes the signed-in user's password.
func (c *Client) UpdatePassword(ctx context.Context, change domain.PasswordChange) error {
	if err := c.doRequest(ctx, http.MethodPut, c.authURL+"/user/password", change, nil); err != nil {
		return fmt.Errorf("client.UpdatePassword: %w", err)
	}
	return nil
}

func (c *Client) blogPath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.blogURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.doRequest(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("url", endpoint).
			Str("message", httpErr.Message).
			Msg("api error")
		return httpErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage prefers the body's "error" field, then "message", then the
// raw body.
func errorMessage(status int, body []byte) string {
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Error != "" {
			return apiErr.Error
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(status)
}
