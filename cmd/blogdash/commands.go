package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/naveenspark/blogdash/internal/session"
	"github.com/naveenspark/blogdash/internal/tui"
	"github.com/naveenspark/blogdash/pkg/domain"
)

func loginCmd(e *env) *cli.Command {
	var email string
	return &cli.Command{
		Name:      "login",
		Usage:     "Sign in and save the session",
		UsageText: "blogdash login [--email <address>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email (prompted when omitted)",
				Destination: &email,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p := newPrompter(os.Stdin, c.Root().Writer)
			if email == "" {
				email = p.line("Email: ")
			}
			creds := domain.Credentials{
				Email:    strings.TrimSpace(email),
				Password: p.secret("Password: "),
			}
			if err := creds.Validate(); err != nil {
				return errors.New(domain.FirstError(err))
			}

			resp, err := e.client.Login(ctx, creds)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			sess, err := e.store.Save(*resp, creds.Email)
			if err != nil {
				return err
			}
			printWelcome(c.Root().Writer, resp.Name, sess)
			return nil
		},
	}
}

func registerCmd(e *env) *cli.Command {
	var (
		email string
		role  string
	)
	return &cli.Command{
		Name:      "register",
		Usage:     "Create an account and save the session",
		UsageText: "blogdash register [--email <address>] [--role user|admin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "account email (prompted when omitted)",
				Destination: &email,
			},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "account role: " + strings.Join(domain.Roles, ", "),
				Value:       domain.Roles[0],
				Destination: &role,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p := newPrompter(os.Stdin, c.Root().Writer)
			if email == "" {
				email = p.line("Email: ")
			}
			reg := domain.Registration{
				Email:    strings.TrimSpace(email),
				Password: p.secret("Password: "),
				Confirm:  p.secret("Confirm password: "),
				Role:     role,
			}
			if err := reg.Validate(); err != nil {
				return errors.New(domain.FirstError(err))
			}

			resp, err := e.client.Register(ctx, reg)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			sess, err := e.store.Save(*resp, reg.Email)
			if err != nil {
				return err
			}
			printWelcome(c.Root().Writer, "", sess)
			return nil
		},
	}
}

func logoutCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Remove the saved session",
		Action: func(ctx context.Context, c *cli.Command) error {
			out := c.Root().Writer
			if _, err := e.store.Load(); errors.Is(err, session.ErrNoSession) {
				_, _ = fmt.Fprintln(out, "Already logged out.")
				return nil
			}
			if err := e.store.Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in account",
		Action: func(ctx context.Context, c *cli.Command) error {
			out := c.Root().Writer
			sess, err := e.store.Load()
			if errors.Is(err, session.ErrNoSession) {
				printSignedOut(out)
				return nil
			}
			if err != nil {
				return err
			}

			e.client.SetToken(sess.Token)
			if p, err := e.client.GetProfile(ctx); err == nil {
				if p.Email != "" {
					sess.Email = p.Email
				}
				if p.Role != "" {
					sess.Role = p.Role
				}
			}
			printSession(out, sess)
			return nil
		},
	}
}

func postsCmd(e *env) *cli.Command {
	var (
		jsonOutput bool
		category   string
		sortBy     string
	)
	return &cli.Command{
		Name:      "posts",
		Usage:     "List blog posts",
		UsageText: "blogdash posts [--json] [--category <name>] [--sort new|old|likes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &jsonOutput,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "only show posts in this category",
				Destination: &category,
			},
			&cli.StringFlag{
				Name:        "sort",
				Usage:       "sort order (new, old, likes)",
				Value:       string(domain.SortNewest),
				Destination: &sortBy,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if category != "" && !domain.ValidCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			if sess, err := e.store.Load(); err == nil {
				e.client.SetToken(sess.Token)
			}

			posts, err := e.client.ListPosts(ctx)
			if err != nil {
				return fmt.Errorf("list posts: %w", err)
			}
			posts = filterPosts(posts, category)
			domain.SortPosts(posts, domain.SortOrder(sortBy))

			if len(posts) == 0 && !jsonOutput {
				fmt.Fprintln(os.Stderr, "No posts found")
				return nil
			}
			return writePosts(c.Root().Writer, posts, jsonOutput)
		},
	}
}

func updateCmd() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Check for a newer release",
		Action: func(ctx context.Context, c *cli.Command) error {
			out := c.Root().Writer
			if version == "dev" {
				_, _ = fmt.Fprintln(out, "dev build. Install a release to check for updates.")
				return nil
			}
			latest, ok := tui.LatestRelease(version)
			if !ok {
				printAlreadyCurrent(out, "v"+strings.TrimPrefix(version, "v"))
				return nil
			}
			printUpdateAvailable(out, "v"+strings.TrimPrefix(version, "v"), latest, tui.ReleasesURL)
			return nil
		},
	}
}

func filterPosts(posts []domain.Post, category string) []domain.Post {
	if category == "" {
		return posts
	}
	out := posts[:0:0]
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// postLine is the JSON output format for blogdash posts --json.
type postLine struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

func writePosts(out io.Writer, posts []domain.Post, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		for _, p := range posts {
			line := postLine{
				ID:        p.ID,
				Title:     p.Title,
				Category:  p.Category,
				Author:    p.Author,
				Likes:     p.Likes,
				Comments:  p.CommentCount(),
				CreatedAt: p.CreatedAt,
			}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("encode post: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tAUTHOR\tLIKES\tCOMMENTS")
	for _, p := range posts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			p.ID, oneLine(p.Title, 48), p.Category, p.Author, p.Likes, p.CommentCount())
	}
	return w.Flush()
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}

// prompter reads answers from a terminal or a pipe.
type prompter struct {
	in    *os.File
	r     *bufio.Reader
	out   io.Writer
	isTTY bool
}

func newPrompter(in *os.File, out io.Writer) *prompter {
	return &prompter{
		in:    in,
		r:     bufio.NewReader(in),
		out:   out,
		isTTY: term.IsTerminal(int(in.Fd())),
	}
}

func (p *prompter) line(label string) string {
	_, _ = fmt.Fprint(p.out, label)
	s, _ := p.r.ReadString('\n')
	return strings.TrimSpace(s)
}

// secret reads without echo on a terminal and falls back to a plain line
// when input is piped.
func (p *prompter) secret(label string) string {
	if !p.isTTY {
		s, _ := p.r.ReadString('\n')
		return strings.TrimRight(s, "\r\n")
	}
	_, _ = fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(int(p.in.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return ""
	}
	return string(b)
}
