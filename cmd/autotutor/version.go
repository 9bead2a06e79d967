package main

import (
	"fmt"
	"os"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of AutoTutor",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Println(autotutor.Version)
			return
		}
		tui.PrintBanner(os.Stdout, autotutor.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
