package main

import (
	"fmt"
	"os"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [script]",
	Short: "Print the dialogue as a Mermaid flowchart",
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
		fmt.Println(graph.GenerateMermaid(script, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
