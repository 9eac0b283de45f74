package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/blogdash/internal/session"
)

var signedOutTips = [...]string{
	"Drafts don't publish themselves.",
	"Your readers left comments. Someone should read them.",
	"The dashboard counts likes whether you look or not.",
	"A post a week keeps the archive from gathering dust.",
	"Every category has room for one more story.",
	"Sign in, press 3, start typing. That's the whole trick.",
}

var (
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	bannerQuote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	bannerWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")).Bold(true)
	bannerKey   = lipgloss.NewStyle().Bold(true)
)

func printSignedOut(out io.Writer) {
	tip := signedOutTips[rand.IntN(len(signedOutTips))]
	_, _ = fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n\n",
		bannerTitle.Render("BLOGDASH"),
		bannerQuote.Render(tip),
		bannerDim.Render("Not signed in. To sign in: blogdash login"))
}

func printWelcome(out io.Writer, name string, s *session.Session) {
	greeting := "Welcome back!"
	if name != "" {
		greeting = fmt.Sprintf("Welcome back, %s!", name)
	}
	_, _ = fmt.Fprintf(out, "\n%s %s\n", bannerOK.Render("✓"), greeting)
	printSession(out, s)
	_, _ = fmt.Fprintf(out, "%s\n\n", bannerDim.Render("Run 'blogdash' to open the dashboard."))
}

func printSession(out io.Writer, s *session.Session) {
	email := s.Email
	if email == "" {
		email = "unknown"
	}
	role := s.Role
	switch {
	case role == "":
		role = "unknown"
	case s.IsAdmin():
		role = bannerWarn.Render(role)
	}
	_, _ = fmt.Fprintf(out, "\n  %s %s\n  %s %s\n",
		bannerKey.Render(fmt.Sprintf("%-8s", "email")), email,
		bannerKey.Render(fmt.Sprintf("%-8s", "role")), role)
	if !s.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(out, "  %s %s\n",
			bannerKey.Render(fmt.Sprintf("%-8s", "expires")),
			s.ExpiresAt.Local().Format("Jan 2, 2006 15:04"))
	}
	_, _ = fmt.Fprintln(out)
}

func printAlreadyCurrent(out io.Writer, current string) {
	_, _ = fmt.Fprintf(out, "\n  %s  %s\n\n",
		bannerTitle.Render(current),
		bannerDim.Render("is the latest release"))
}

func printUpdateAvailable(out io.Writer, current, latest, url string) {
	_, _ = fmt.Fprintf(out, "\n  %s  %s  %s\n\n  %s\n\n",
		bannerDim.Render(current),
		bannerWarn.Render("→"),
		bannerTitle.Render(latest),
		bannerDim.Render("Download it from "+url))
}
