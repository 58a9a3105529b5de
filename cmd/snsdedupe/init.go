package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"snsdedupe/internal/cmdlog"
	"snsdedupe/internal/config"
	"snsdedupe/internal/theme"
)

func newInitCmd(o *rootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				theme.PrintBanner(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
				fmt.Fprintln(cmd.OutOrStdout(), "Put LATE_API_KEY in .env or set credentials.apiKey.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultConfigPath, "path to write config")
	return cmd
}
