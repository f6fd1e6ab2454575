// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/messagely/internal/config"
)

// NewConfigCmd creates the config subcommand.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file with a fresh signing key",
		Long: `Write a config file populated with defaults and a newly generated
auth.secret_key. The file is written to --config, or to
XDG_CONFIG_HOME/messagely/config.yaml when --config is not set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configFile
			if path == "" {
				def, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = def
			}

			cfg := config.Default()
			secret, err := config.GenerateSecret()
			if err != nil {
				return err
			}
			cfg.Auth.SecretKey = secret

			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the signing key redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFullConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Auth.SecretKey = "<redacted>"
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}
