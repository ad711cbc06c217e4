package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storagePath string
	backendName string
	mode        string
	prefix      string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-session",
	Short: "Manage multi-session chat history in a local store",
	Long: `A CLI for a local multi-session conversation store.

Conversations are grouped into sessions. The store keeps the 10 most recently
used sessions and the last 100 messages of each, and remembers which session
is current across runs.

Features:
  • Create, switch, rename and delete sessions
  • Append messages and read the current session's history
  • SQLite, JSON file or in-memory storage
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)
  • Integrity check and repair of the stored data

Quick Start:
  chat-session new "trip planning"       # Start a session
  chat-session send "where should we go?" # Append a user message
  chat-session history                   # Show the current session
  chat-session list                      # List sessions

Configuration is read from ~/.chat-session/config.yaml and CHAT_SESSION_*
environment variables; flags override both.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.chat-session/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to a store file or directory)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend (sqlite, file, memory)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Conversation mode (chat, calculator)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "Key prefix, overrides --mode")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// session bundles an opened store with its configuration
type session struct {
	store  *internal.Store
	config *internal.Config
	close  func() error
}

// loadConfig loads the config file and applies flag overrides
func loadConfig() (*internal.Config, internal.StoragePaths, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, internal.StoragePaths{}, err
	}

	if backendName != "" {
		cfg.Storage.Backend = backendName
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	if storagePath != "" {
		cfg.Storage.Path = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, internal.StoragePaths{}, fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := internal.GetStoragePaths(storagePath)
	if err != nil {
		return nil, internal.StoragePaths{}, fmt.Errorf("failed to get storage paths: %w", err)
	}
	return cfg, paths, nil
}

// openStore opens the configured store. With initialize set, the current
// session is resolved (and created if needed) before returning.
func openStore(initialize bool) (*session, error) {
	cfg, paths, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend, closeFn, err := cfg.OpenBackend(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	opts := append(cfg.StoreOptions(), internal.WithLogger(internal.Logger()))
	store := internal.New(backend, cfg.ResolvePrefix(), opts...)

	if initialize {
		if err := store.Initialize(); err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
	}

	return &session{store: store, config: cfg, close: closeFn}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		internal.LogWarn("Failed to close storage: %v", err)
	}
}

// resolveSessionID matches arg against the session index: a full id, a
// unique id prefix, or a unique prefix of the part after "session_"
func resolveSessionID(store *internal.Store, arg string) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return "", fmt.Errorf("session id cannot be empty")
	}

	var matches []string
	for _, s := range store.Sessions() {
		if s.ID == arg {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, arg) || strings.HasPrefix(shortID(s.ID), arg) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s (use 'chat-session list' to see available sessions)", internal.ErrSessionNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session id %q is ambiguous (matches %d sessions)", arg, len(matches))
	}
}

// shortID strips the "session_" prefix and keeps the first 8 characters
func shortID(id string) string {
	id = strings.TrimPrefix(id, "session_")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}
