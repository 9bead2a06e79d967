package main

import (
	"fmt"
	"os"

	"github.com/aretw0/autotutor/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "autotutor",
	Short: "AutoTutor is a scripted chat tutor for graphing functions",
	Long: `AutoTutor walks a learner through finding where a thrown ball lands,
using the x-intercepts of the function they configure.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("script", "", "Lesson script (defaults to the bundled lesson)")
	rootCmd.PersistentFlags().String("assets-dir", "", "Directory with lesson images (defaults to the bundled images)")

	_ = v.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag(config.KeyScript, rootCmd.PersistentFlags().Lookup("script"))
	_ = v.BindPFlag(config.KeyAssetsDir, rootCmd.PersistentFlags().Lookup("assets-dir"))
}

var cfg *config.Config

func initConfig() {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
}
