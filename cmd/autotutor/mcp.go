package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/autotutor/internal/cli"
	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/pkg/adapters/mcp"
	"github.com/aretw0/autotutor/pkg/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long:  `Exposes lessons as Model Context Protocol tools over stdio or SSE.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Stdout belongs to the protocol on stdio.
		logger := logging.NewJSON(os.Stderr, logging.Level(cfg.Debug))

		tutor, err := cli.NewTutor(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing autotutor: %v\n", err)
			os.Exit(1)
		}
		srv := mcp.NewServer(
			session.NewManager(tutor, session.WithLogger(logger)),
			tutor.Script(),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			err = srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = srv.ServeSSE(ctx, port)
		default:
			err = fmt.Errorf("unknown transport %q (use stdio or sse)", transport)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the SSE transport")
}
