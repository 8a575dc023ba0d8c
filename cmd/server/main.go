package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "selfcare",
		Short:        "Road to Self-Care API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(dispatchRemindersCmd(&configPath))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and reminder worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.migrate(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	}
}

func dispatchRemindersCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch-reminders",
		Short: "Send every due reminder once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.reminderWorker().RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Reminders sent: %d, failed: %d\n", result.Sent, result.Failed)
			return nil
		},
	}
}
