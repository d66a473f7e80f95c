package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antiq-app/antiq/cmd/antiq/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "antiq",
		Short: "Command line client for the AntiQ task manager",
		Long:  "Manage tasks, categories, and calendar views against an AntiQ server",
	}

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewTasksCmd())
	rootCmd.AddCommand(commands.NewCategoriesCmd())
	rootCmd.AddCommand(commands.NewCalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
