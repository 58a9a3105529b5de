package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"snsdedupe/internal/config"
	"snsdedupe/internal/lateclient"
	"snsdedupe/internal/logging"
	"snsdedupe/internal/metrics"
	"snsdedupe/internal/store/journal"
	"snsdedupe/internal/theme"
)

const defaultConfigPath = "./snsdedupe.yaml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootOptions holds persistent flags and the per-run configuration built
// from them before any subcommand runs.
type rootOptions struct {
	cfgPath string
	envFile string
	verbose bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           "snsdedupe",
		Short:         "Filter out social posts that are already scheduled",
		Long:          "snsdedupe compares locally authored posts with what is already scheduled on the Late API and skips duplicates before posting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme.PrintBanner(cmd.OutOrStdout())
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&o.cfgPath, "config", "", "config file (default ./snsdedupe.yaml when present)")
	root.PersistentFlags().StringVar(&o.envFile, "env-file", "", "env file holding LATE_API_KEY (default ./.env, then ~/.config/snsdedupe/.env)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "print a line per item")

	root.AddCommand(newDedupeCmd(o))
	root.AddCommand(newCheckCmd(o))
	root.AddCommand(newPostCmd(o))
	root.AddCommand(newInitCmd(o))
	root.AddCommand(newHistoryCmd(o))
	return root
}

// setup loads env files and config once, then configures logging and metrics.
func (o *rootOptions) setup(stderr io.Writer) error {
	envFiles := config.DefaultEnvFiles()
	if o.envFile != "" {
		if _, err := os.Stat(o.envFile); err != nil {
			return fmt.Errorf("env file: %w", err)
		}
		envFiles = []string{o.envFile}
	}
	loaded, err := config.LoadEnvFiles(envFiles...)
	if err != nil {
		return err
	}

	path := o.cfgPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	logging.Setup(cfg.Log.Level, stderr)
	logging.Debug("config_loaded", map[string]any{"config": path, "env_files": loaded})
	metrics.StartServer(cfg.Metrics.Addr)
	return nil
}

func (o *rootOptions) client() *lateclient.HTTPClient {
	return lateclient.NewHTTPClient(o.cfg.Credentials.APIKey, lateclient.Options{
		BaseURL:           o.cfg.API.BaseURL,
		RequestsPerSecond: o.cfg.API.RequestsPerSecond,
		Burst:             o.cfg.API.Burst,
	})
}

// trace is where per-item lines go: stderr when verbose, nowhere otherwise.
func (o *rootOptions) trace(stderr io.Writer) io.Writer {
	if o.verbose {
		return stderr
	}
	return nil
}

// openJournal returns nil when no journal is configured. Failing to open a
// configured journal is logged and the run continues without it.
func (o *rootOptions) openJournal() *journal.DB {
	if o.cfg.Storage.JournalPath == "" {
		return nil
	}
	db, err := journal.Open(o.cfg.Storage.JournalPath)
	if err != nil {
		logging.Warn("journal_open_failed", map[string]any{"path": o.cfg.Storage.JournalPath, "error": err.Error()})
		return nil
	}
	return db
}
