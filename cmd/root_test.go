package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommandFlags tests that all expected CLI flags are present
func TestRootCommandFlags(t *testing.T) {
	configFlag := rootCmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, configFlag)
	assert.Equal(t, "string", configFlag.Value.Type())

	serverFlag := rootCmd.PersistentFlags().Lookup("server")
	assert.NotNil(t, serverFlag)
	assert.Equal(t, "s", serverFlag.Shorthand)

	modelFlag := rootCmd.PersistentFlags().Lookup("model")
	assert.NotNil(t, modelFlag)
	assert.Equal(t, "m", modelFlag.Shorthand)

	tokenFlag := rootCmd.PersistentFlags().Lookup("token")
	assert.NotNil(t, tokenFlag)

	logLevelFlag := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Equal(t, "info", logLevelFlag.DefValue)

	promptFlag := rootCmd.Flags().Lookup("prompt")
	assert.NotNil(t, promptFlag)
	assert.Equal(t, "string", promptFlag.Value.Type())

	threadFlag := rootCmd.Flags().Lookup("thread")
	assert.NotNil(t, threadFlag)
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["threads"])
	assert.True(t, names["models"])
}

func TestThreadsSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range threadsCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["rename"])
	assert.True(t, names["delete"])
	assert.True(t, names["show"])
}
