package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with the serve and migrate subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user-service",
		Short: "User account service",
		Long: `User account service. Registers users with their phones, authenticates
them with a password and issues JWT session tokens.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
