package adapter

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncherConfiguredCommand(t *testing.T) {
	l := NewLauncher(BrowserConfig{Command: "firefox", Args: []string{"--new-tab"}}, NullLogger())

	var got []string
	l.start = func(cmd *exec.Cmd) error {
		got = cmd.Args
		return nil
	}

	require.NoError(t, l.Open("https://rawg.io/games/portal"))
	assert.Equal(t, []string{"firefox", "--new-tab", "https://rawg.io/games/portal"}, got)
}

func TestLauncherReportsStartFailure(t *testing.T) {
	l := NewLauncher(BrowserConfig{Command: "nope"}, NullLogger())
	l.start = func(*exec.Cmd) error { return errors.New("not found") }

	err := l.Open("https://rawg.io/games/portal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestLauncherSystemDefault(t *testing.T) {
	l := NewLauncher(BrowserConfig{}, NullLogger())

	var url string
	l.start = func(cmd *exec.Cmd) error {
		url = cmd.Args[len(cmd.Args)-1]
		return nil
	}

	require.NoError(t, l.Open("https://rawg.io/games/braid"))
	assert.Equal(t, "https://rawg.io/games/braid", url)
}
