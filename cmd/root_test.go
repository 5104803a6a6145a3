package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Metadata(t *testing.T) {
	assert.Equal(t, "propscore", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
}

func TestRootCmd_SubcommandsRegistered(t *testing.T) {
	want := []string{"compare", "batch", "comparisons", "properties", "serve"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "missing subcommand %s", name)
	}
}

func TestRootCmd_RejectsInvalidEngineConfig(t *testing.T) {
	// A zero loan term makes the affordability raw value infinite for
	// every property, collapsing the dimension to a uniform score.
	// Startup must refuse the config instead of scoring with it.
	t.Setenv("PROPSCORE_ENGINE_LOAN_TERM_YEARS", "0")

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan_term_years")
}

func TestComparisonsCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range comparisonsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "delete"} {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
}

func TestPropertiesCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range propertiesCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"import", "show", "list"} {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
}

func TestCompareCmd_Flags(t *testing.T) {
	for _, flag := range []string{"file", "ids", "criteria-file", "price", "size", "location", "format", "output", "save", "name"} {
		require.NotNil(t, compareCmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}
