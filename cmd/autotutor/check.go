package main

import (
	"os"

	"github.com/aretw0/autotutor/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the setup checklist for a function",
	Run: func(cmd *cobra.Command, args []string) {
		fn, bounds := functionFlags(cmd)
		name, _ := cmd.Flags().GetString("name")
		if !cli.PrintChecklist(os.Stdout, fn, name, bounds) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addFunctionFlags(checkCmd)
}
