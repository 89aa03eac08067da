package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"generate", "history", "edit", "export", "upload"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}

	cmd, _, err := root.Find([]string{"tui"})
	require.NoError(t, err)
	require.Equal(t, "edit", cmd.Name())

	require.NotNil(t, root.PersistentFlags().Lookup("api"))
	require.NotNil(t, root.PersistentFlags().Lookup("out"))
}

func TestGenerateRequiresPrompt(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"generate"})
	require.Error(t, root.Execute())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	require.Equal(t, "ééé...", truncate("éééééééé", 6))
}
