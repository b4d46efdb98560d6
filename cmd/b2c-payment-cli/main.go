// Package main is the entry point for the b2c-payment-cli application.
// It registers the schema migration, reconciliation and development token
// sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ajharry69/kcb-b2c-payment/cmd/b2c-payment-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "b2c-payment-cli",
		Short: "B2C payment service operations tool",
		Long: `b2c-payment-cli manages the B2C payment service outside of the REST API.
Applies and rolls back database migrations, runs a single reconciliation pass over
stuck payments and mints bearer tokens for local development.

Commands reading the service configuration use --config or the CONFIG_PATH
environment variable; B2C_* environment variables override file settings.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the service configuration file (default $CONFIG_PATH or configs/rest-app.yaml)")

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitMigrateCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize migrate commands: %w", err)
	}

	if err := commands.InitReconcileCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize reconcile commands: %w", err)
	}

	if err := commands.InitTokenCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize token commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
