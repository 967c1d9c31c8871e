/*
Package cli implements the rakuten-agent commands.

Every command loads .env, then config.yaml (falling back to environment-only
defaults when the file is absent), initialises the logger and runs under a
context that is cancelled on SIGINT/SIGTERM.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"github.com/spf13/cobra"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "config.yaml"

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "rakuten-agent",
		Short: "Product recommendations from Rakuten Ichiba via LLM function calling",
		Long: `rakuten-agent asks a language model to pick a Rakuten Ichiba search
(keyword and sort order), runs that search, and lets the model recommend
one of the returned items with a reason.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to config.yaml")

	root.AddCommand(NewRecommendCmd(&configPath))
	root.AddCommand(NewSearchCmd(&configPath))
	root.AddCommand(NewSortsCmd())

	return root
}

// session holds what every networked command needs.
type session struct {
	cfg      *config.AppConfig
	ctx      context.Context
	shutdown func()
}

// openSession loads configuration, starts logging and installs the signal handler.
// The caller must defer session.close().
func openSession(parent context.Context, configPath string) (*session, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	if err := utils.InitLogger(utils.LoggerConfig{
		Level: cfg.App.LogLevel,
		Dir:   cfg.App.LogsDir,
		JSON:  cfg.App.LogFormat == "json",
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, shutdown := utils.SetupGracefulShutdownWithContext(parent)

	utils.Info("Session started", "config", configPath, "debug", cfg.App.Debug)

	return &session{cfg: cfg, ctx: ctx, shutdown: shutdown}, nil
}

func (s *session) close() {
	s.shutdown()
}

// debugDir is where JSON run traces go.
func (s *session) debugDir() string {
	if s.cfg.App.LogsDir == "" {
		return "debug_logs"
	}
	return filepath.Join(s.cfg.App.LogsDir, "debug")
}

// describeError adds a hint for Rakuten API failures.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	kind := rakuten.ClassifyError(err)
	if kind == rakuten.ErrUnknown {
		return err
	}
	return fmt.Errorf("%s (%s): %w", kind.HumanMessage(), kind, err)
}
