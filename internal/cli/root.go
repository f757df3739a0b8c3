// Package cli provides the command-line interface for things2task.
package cli

import (
	"bytes"
	"fmt"
	"os"

	twclient "github.com/TWRT/things-taskwarrior/internal/client/taskwarrior"
	"github.com/TWRT/things-taskwarrior/internal/config"
	"github.com/TWRT/things-taskwarrior/internal/logging"
	"github.com/TWRT/things-taskwarrior/internal/repository"
	"github.com/TWRT/things-taskwarrior/internal/service"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	database   string
	taskBin    string
	logLevel   string
	output     string
}

// NewRootCommand creates the root command. It converts the Things database
// and writes Taskwarrior import lines to stdout or --output.
func NewRootCommand(version string) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "things2task",
		Short: "Convert a Things 3 database to Taskwarrior import format",
		Long: `things2task reads the Things 3 SQLite database and prints one
Taskwarrior JSON task per line, ready for "task import".

The database location defaults to the Things 3 container in your home
directory and can be overridden with --db, the THINGS_DB environment
variable or the "database" key of a config file.`,
		Example:       "  things2task | task import",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, opts)
			return run(cmd, cfg, opts.output)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (YAML, or TOML with a .toml extension)")
	f.StringVar(&opts.database, "db", "", "path to Things.sqlite3 (overrides $"+config.EnvDatabase+")")
	f.StringVar(&opts.taskBin, "task-bin", "", "taskwarrior binary used to resolve 'someday'")
	f.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	f.StringVarP(&opts.output, "output", "o", "", "write tasks to this file instead of stdout")

	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = opts.database
	}
	if flags.Changed("task-bin") {
		cfg.TaskBin = opts.taskBin
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}

// run converts the database into memory first; nothing reaches stdout or the
// output file unless the whole run succeeds.
func run(cmd *cobra.Command, cfg *config.Config, output string) error {
	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

	db, err := repository.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := service.NewConversionService(
		repository.NewTaskRepository(db),
		repository.NewTagRepository(db),
		repository.NewTaskTagRepository(db),
		twclient.NewTaskwarriorClient(cfg.TaskBin),
		logger,
	)

	logger.Debug("converting", "database", cfg.Database)
	var buf bytes.Buffer
	if _, err := svc.Convert(cmd.Context(), &buf); err != nil {
		return err
	}

	if output == "" {
		if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
