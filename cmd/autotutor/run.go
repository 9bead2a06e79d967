package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/autotutor/internal/cli"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a lesson in the terminal",
	Long: `Configures the function, checks the setup and starts the lesson.
Use --tui for the full-screen interface or --json for line-delimited JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		fn, bounds := functionFlags(cmd)
		name, _ := cmd.Flags().GetString("name")
		tui, _ := cmd.Flags().GetBool("tui")
		jsonMode, _ := cmd.Flags().GetBool("json")
		headless, _ := cmd.Flags().GetBool("headless")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := cli.Execute(ctx, cli.RunOptions{
			Config:      cfg,
			Function:    fn,
			Bounds:      bounds,
			StudentName: name,
			TUI:         tui,
			JSON:        jsonMode,
			Headless:    headless,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// addFunctionFlags registers the flags shared by run and check.
func addFunctionFlags(cmd *cobra.Command) {
	d := setup.DefaultFunction
	cmd.Flags().String("family", string(d.Family), "Function family: linear or quadratic")
	cmd.Flags().Float64("a", d.A, "Leading coefficient")
	cmd.Flags().Float64("b", d.B, "Second coefficient")
	cmd.Flags().Float64("c", d.C, "Constant term (quadratic only)")
	cmd.Flags().String("name", setup.DefaultStudentName, "Learner name")
	cmd.Flags().Float64("xmin", setup.DefaultBounds.X[0], "Left plot bound")
	cmd.Flags().Float64("xmax", setup.DefaultBounds.X[1], "Right plot bound")
	cmd.Flags().Float64("ymin", setup.DefaultBounds.Y[0], "Lower plot bound")
	cmd.Flags().Float64("ymax", setup.DefaultBounds.Y[1], "Upper plot bound")
}

func functionFlags(cmd *cobra.Command) (setup.Function, setup.Bounds) {
	family, _ := cmd.Flags().GetString("family")
	a, _ := cmd.Flags().GetFloat64("a")
	b, _ := cmd.Flags().GetFloat64("b")
	c, _ := cmd.Flags().GetFloat64("c")
	xmin, _ := cmd.Flags().GetFloat64("xmin")
	xmax, _ := cmd.Flags().GetFloat64("xmax")
	ymin, _ := cmd.Flags().GetFloat64("ymin")
	ymax, _ := cmd.Flags().GetFloat64("ymax")

	fn := setup.Function{Family: domain.Family(family), A: a, B: b, C: c}
	bounds := setup.Bounds{X: [2]float64{xmin, xmax}, Y: [2]float64{ymin, ymax}}
	return fn, bounds
}

func init() {
	rootCmd.AddCommand(runCmd)
	addFunctionFlags(runCmd)
	runCmd.Flags().Bool("tui", false, "Full-screen terminal interface")
	runCmd.Flags().Bool("json", false, "Line-delimited JSON on stdin/stdout")
	runCmd.Flags().Bool("headless", false, "No banner and no plot")
}
