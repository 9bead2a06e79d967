package main

import (
	"fmt"
	"os"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [script]",
	Short: "Validate a lesson script",
	Long:  `Compiles the script and reports unreachable nodes, dangling references, line cycles and unknown placeholders.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := cfg.Script
		if len(args) > 0 {
			path = args[0]
		}

		script, err := autotutor.LoadScript(path)
		if err != nil {
			fmt.Printf("Error loading script: %v\n", err)
			os.Exit(1)
		}

		report := validator.ValidateScript(script)
		for _, issue := range report.Warnings() {
			fmt.Printf("⚠️  %s\n", issue)
		}
		for _, issue := range report.Errors() {
			fmt.Printf("❌ %s\n", issue)
		}
		if report.Err() != nil {
			os.Exit(1)
		}
		fmt.Printf("✅ %q is valid (%d nodes)\n", script.Title, len(script.Nodes))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
