package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/naveenspark/blogdash/internal/config"
	"github.com/naveenspark/blogdash/internal/logging"
	"github.com/naveenspark/blogdash/internal/session"
	"github.com/naveenspark/blogdash/internal/toast"
	"github.com/naveenspark/blogdash/internal/tui"
	"github.com/naveenspark/blogdash/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func buildVersion() string {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				return mv
			}
		}
	}
	return version
}

// flags holds the global flag values.
type flags struct {
	configPath string
	dataDir    string
	logLevel   string
	logFile    string
	blogAPI    string
	authAPI    string
}

// env is what Before builds for every command.
type env struct {
	cfg    *config.Config
	store  *session.Store
	client *client.Client
}

func main() {
	var (
		f         flags
		e         env
		logCloser func()
	)

	app := &cli.Command{
		Name:      "blogdash",
		Usage:     "Blog admin dashboard for the terminal",
		UsageText: "blogdash [global options] [command [command options]]",
		Description: `blogdash manages a blog from the terminal: browse and search posts,
write and edit them, moderate comments and manage your account.

Run 'blogdash' with no arguments to open the interactive dashboard.
Run 'blogdash login' to sign in without opening it.`,
		Version: buildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BLOGDASH_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &f.configPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("BLOGDASH_DATA_DIR"),
				Value:       config.DefaultDataDir(),
				Destination: &f.dataDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, disabled)",
				Sources:     cli.EnvVars("BLOGDASH_LOG_LEVEL"),
				Value:       "info",
				Destination: &f.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/blogdash.log)",
				Sources:     cli.EnvVars("BLOGDASH_LOG_FILE"),
				Destination: &f.logFile,
			},
			&cli.StringFlag{
				Name:        "blog-api",
				Usage:       "blog API base URL (overrides the config file)",
				Sources:     cli.EnvVars("BLOGDASH_BLOG_API"),
				Destination: &f.blogAPI,
			},
			&cli.StringFlag{
				Name:        "auth-api",
				Usage:       "auth API base URL (overrides the config file)",
				Sources:     cli.EnvVars("BLOGDASH_AUTH_API"),
				Destination: &f.authAPI,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(f.configPath, f.dataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if f.blogAPI != "" || f.authAPI != "" {
				if f.blogAPI != "" {
					cfg.BlogAPIURL = f.blogAPI
				}
				if f.authAPI != "" {
					cfg.AuthAPIURL = f.authAPI
				}
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid flags: %w", err)
				}
			}

			// The dashboard owns the terminal, so logs always go to a file.
			logFile := f.logFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}
			logger, closer, err := logging.New(f.logLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			clientLog := logging.Component("client")
			e = env{
				cfg:   cfg,
				store: session.NewStore(cfg.SessionFile()),
				client: client.New(client.Options{
					BlogURL: cfg.BlogAPIURL,
					AuthURL: cfg.AuthAPIURL,
					Timeout: cfg.RequestTimeout,
					Logger:  &clientLog,
				}),
			}
			log.Debug().
				Str("blog_api", cfg.BlogAPIURL).
				Str("auth_api", cfg.AuthAPIURL).
				Str("version", version).
				Msg("starting")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Commands: []*cli.Command{
			loginCmd(&e),
			registerCmd(&e),
			logoutCmd(&e),
			whoamiCmd(&e),
			postsCmd(&e),
			updateCmd(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'blogdash --help' for usage", c.Args().First())
			}
			return runDashboard(&e)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runDashboard opens the interactive TUI, signed in when a session exists.
func runDashboard(e *env) error {
	sess, err := e.store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		sess = nil
	case err != nil:
		log.Warn().Err(err).Msg("ignoring unreadable session")
		sess = nil
	default:
		e.client.SetToken(sess.Token)
	}

	toasts := toast.New(
		toast.WithDefaultLifetime(e.cfg.Toast.DefaultLifetime),
		toast.WithLogger(logging.Component("toast")),
	)

	app := tui.NewApp(tui.Options{
		Client:        e.client,
		Store:         e.store,
		Session:       sess,
		Toasts:        toasts,
		ErrorLifetime: e.cfg.Toast.ErrorLifetime,
		MaxVisible:    e.cfg.Toast.MaxVisible,
		Version:       version,
		CheckUpdates:  e.cfg.CheckUpdates,
		BlogURL:       e.cfg.BlogAPIURL,
		Logger:        logging.Component("tui"),
	})
	if err := tui.Run(app); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
