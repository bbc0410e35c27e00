package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batalabs/pinchat/internal/config"
	"github.com/batalabs/pinchat/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	forgetYes = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "config", "set", "surface", "PANEL")
	require.NoError(t, err)
	assert.Contains(t, out, "surface = panel")

	_, err = execute(t, "config", "set", "dismiss_delay", "2")
	require.NoError(t, err)
	assert.Equal(t, "2s", config.LoadPreferences().DismissDelay.String())

	_, err = execute(t, "config", "set", "surface", "sidebar")
	assert.ErrorContains(t, err, "invalid surface")

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "panel")
	assert.Contains(t, out, "openrouter.url")
}

func TestStatusAndForget(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No key saved")

	st, err := store.OpenStore()
	require.NoError(t, err)
	require.NoError(t, st.Save("sk-or-v1-abcd1234", "4821"))
	require.NoError(t, st.Close())

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "sk-or-v1")

	_, err = execute(t, "forget")
	assert.ErrorContains(t, err, "--yes")

	out, err = execute(t, "forget", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved key deleted")

	out, err = execute(t, "forget", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to forget")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pinchat ")
}
