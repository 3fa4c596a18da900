package main

import (
	"fmt"
	"os"

	"github.com/rushboard/challenge-api/cmd/moderate/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "challenge-moderate",
		Short: "Moderation tool for the challenge API",
		Long:  "CLI tool for reviewing pending submissions and ideas directly against the database",
	}

	rootCmd.AddCommand(commands.NewSubmissionsCmd())
	rootCmd.AddCommand(commands.NewIdeasCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
