package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/broomkit/broom/internal/clock"
	"github.com/broomkit/broom/internal/config"
	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/lock"
	"github.com/broomkit/broom/internal/mcpserver"
	"github.com/broomkit/broom/internal/oracle"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Expose the organizer over the Model Context Protocol so LLM agents can
drive it. Tools: scan_directory, organize_directory, undo_last and
redo_last. The protocol runs on stdout, so logs go to stderr at the
configured app log level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))

		client := oracle.NewOllama(cfg.Oracle.Host, cfg.Oracle.Model, cfg.Oracle.BatchSize, cfg.Oracle.Timeout())
		eng := engine.New(fsops.NewRealFS(), &clock.RealClock{}, client, lock.NewFlockLocker(), cfg, logger)

		logger.Info("mcp server starting",
			slog.String("host", cfg.Oracle.Host),
			slog.String("model", cfg.Oracle.Model),
		)
		return mcpserver.New(eng, rootCmd.Version).ServeStdio()
	},
}
