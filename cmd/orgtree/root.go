package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/orgtree"
	"github.com/aretw0/orgtree/internal/logging"
	"github.com/aretw0/orgtree/internal/presentation/tui"
	"github.com/aretw0/orgtree/pkg/adapters/file"
	httpAdapter "github.com/aretw0/orgtree/pkg/adapters/http"
	"github.com/aretw0/orgtree/pkg/adapters/redis"
	"github.com/aretw0/orgtree/pkg/chart"
	"github.com/aretw0/orgtree/pkg/observability"
	"github.com/aretw0/orgtree/pkg/persistence/middleware"
	"github.com/aretw0/orgtree/pkg/ports"
	"github.com/aretw0/orgtree/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds what the commands share once flags are parsed.
type app struct {
	chartPath string
	sessionID string
	storeKind string
	storeDir  string
	redisAddr string
	logLevel  string
	encKey    string
	noColor   bool

	logger   *slog.Logger
	store    ports.SessionStore
	sessions *session.Manager
	metrics  *observability.Metrics
	streams  *httpAdapter.StreamManager
	closers  []func() error
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "orgtree",
		Short: "orgtree reshapes organization charts with undo and redo",
		Long: `orgtree keeps an organization chart in a session and moves employees between
supervisors. Every move can be undone and redone; sessions persist on disk or in Redis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		Run: func(cmd *cobra.Command, args []string) {
			if a.colorful() {
				tui.PrintBanner(cmd.OutOrStdout())
			}
			_ = cmd.Help()
		},
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.chartPath, "chart", "org.yaml", "Chart file (YAML or JSON) used to start new sessions")
	flags.StringVarP(&a.sessionID, "session", "s", "default", "Session ID")
	flags.StringVar(&a.storeKind, "store", "file", "Session store: 'file' or 'redis'")
	flags.StringVar(&a.storeDir, "store-dir", ".orgtree/sessions", "Directory of the file store")
	flags.StringVar(&a.redisAddr, "redis-addr", envOr("ORGTREE_REDIS_ADDR", "localhost:6379"), "Redis address (env ORGTREE_REDIS_ADDR)")
	flags.StringVar(&a.logLevel, "log-level", os.Getenv("ORGTREE_LOG_LEVEL"), "Log level: debug, info, warn, error (env ORGTREE_LOG_LEVEL)")
	flags.StringVar(&a.encKey, "encryption-key", os.Getenv("ORGTREE_ENCRYPTION_KEY"), "32-byte key, hex or base64, to encrypt stored sessions (env ORGTREE_ENCRYPTION_KEY)")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colors and markdown styling")

	rootCmd.AddCommand(
		newShowCmd(a),
		newFindCmd(a),
		newMoveCmd(a),
		newUndoCmd(a),
		newRedoCmd(a),
		newHistoryCmd(a),
		newGraphCmd(a),
		newSessionCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(logOut io.Writer) error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logging.NewWithWriter(logOut, level)

	var locker ports.DistributedLocker
	switch a.storeKind {
	case "file":
		a.store = file.New(a.storeDir)
	case "redis":
		store := redis.New(a.redisAddr, "", 0)
		a.store = store
		a.closers = append(a.closers, store.Close)
		locker = redis.NewLocker(store.Client(), "orgtree:")
	default:
		return fmt.Errorf("unknown store %q. Supported: file, redis", a.storeKind)
	}

	if a.encKey != "" {
		key, err := parseKey(a.encKey)
		if err != nil {
			return err
		}
		a.store = middleware.Chain(a.store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	a.metrics = observability.NewMetrics()
	a.streams = httpAdapter.NewStreamManager(a.logger)
	hooks := observability.Combine(
		observability.AuditHooks(a.logger),
		a.metrics.Hooks(),
		a.streams.Hooks(),
	)

	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithEngineOptions(orgtree.WithLifecycleHooks(hooks)),
	}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	a.sessions = session.NewManager(a.store, opts...)
	return nil
}

func (a *app) close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// loader starts sessions that do not exist yet from the chart file.
func (a *app) loader() ports.ChartLoader {
	return chart.NewFileLoader(a.chartPath)
}

// colorful reports whether stdout is a terminal and colors are allowed.
func (a *app) colorful() bool {
	return !a.noColor && term.IsTerminal(int(os.Stdout.Fd()))
}

// parseKey accepts a hex or base64 encoded AES-256 key.
func parseKey(s string) ([]byte, error) {
	if key, err := hex.DecodeString(s); err == nil && len(key) == middleware.KeySize {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(s); err == nil && len(key) == middleware.KeySize {
		return key, nil
	}
	return nil, fmt.Errorf("encryption key must be %d bytes, hex or base64 encoded", middleware.KeySize)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
