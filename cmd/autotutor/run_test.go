package main

import (
	"testing"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFunctionFlags(cmd)

	fn, bounds := functionFlags(cmd)
	assert.Equal(t, setup.DefaultFunction, fn)
	assert.Equal(t, setup.DefaultBounds, bounds)

	require.NoError(t, cmd.ParseFlags([]string{"--family", "linear", "--a", "-2", "--b", "8", "--ymin=-10", "--ymax", "10"}))
	fn, bounds = functionFlags(cmd)
	assert.Equal(t, setup.Function{Family: domain.FamilyLinear, A: -2, B: 8, C: 1}, fn)
	assert.Equal(t, [2]float64{-10, 10}, bounds.Y)
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "check", "validate", "graph", "serve", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}
