// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Messagely CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messagely",
		Short: "Messagely - two-party messaging service",
		Long: `Messagely is a two-party messaging service. Registered users
authenticate with a password, receive a signed token, and exchange
messages that only the sender and recipient may read.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/messagely/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}
