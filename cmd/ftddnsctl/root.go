package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ftddnsctl",
	Short: "ft-ddns dynamic DNS service",
	Long:  `Run and manage the ft-ddns dynamic DNS service.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
