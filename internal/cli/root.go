package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/b3uf/backoffice/internal/cli/commands"
	"github.com/b3uf/backoffice/internal/client"
	"github.com/b3uf/backoffice/internal/config"
	"github.com/b3uf/backoffice/internal/logger"
	"github.com/b3uf/backoffice/internal/router"
	"github.com/b3uf/backoffice/internal/session"
	"github.com/b3uf/backoffice/internal/storage"
)

var version = "dev" // Will be set during build

// NewRootCmd assembles the command tree around app
func NewRootCmd(app *commands.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "b3uf",
		Short: "b3uf - Cattery back-office",
		Long: `b3uf CLI - Manage your cattery back-office from the terminal.

Sign in once with 'b3uf login'; the session is kept in your OS keychain
(or the storage selected with B3UF_STORAGE) until 'b3uf logout'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "b3uf version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewHomeCmd(app))
	rootCmd.AddCommand(commands.NewLoginCmd(app))
	rootCmd.AddCommand(commands.NewRegisterCmd(app))
	rootCmd.AddCommand(commands.NewLogoutCmd(app))
	rootCmd.AddCommand(commands.NewCatsCmd(app))
	rootCmd.AddCommand(commands.NewUsersCmd(app))
	rootCmd.AddCommand(commands.NewNavCmd(app))

	return rootCmd
}

// NewApp builds the application from configuration: storage backend,
// session, bearer-authorized API client and route gate.
func NewApp(cfg *config.Config) (*commands.App, error) {
	zlog := logger.GetLogger()

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	var sess *session.Session
	api := client.New(
		cfg.Client.APIURL,
		client.TokenFunc(func() string { return sess.Token() }),
		client.WithTimeout(cfg.Client.HTTPTimeout),
	)
	sess = session.New(store, api, zlog)
	sess.Initialize()

	gate := router.NewGate(router.Default(), sess, zlog)

	return commands.NewApp(sess, api, gate, commands.TerminalPrompter{}, os.Stdout, zlog), nil
}

// Execute runs the root command
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	// The CLI is quiet and human-readable unless told otherwise
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	if os.Getenv("LOG_FORMAT") == "" {
		format = "console"
	}
	logger.InitWithWriter(level, format, os.Stderr)

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	// Ctrl-C cancels an in-flight login instead of leaving it dangling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
