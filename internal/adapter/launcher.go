package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// WebBaseURL is the public catalog site game pages are opened on
const WebBaseURL = "https://rawg.io/games/"

// Launcher opens game pages in an external browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start is swapped in tests
	start func(*exec.Cmd) error
}

// NewLauncher creates a launcher for the configured browser
func NewLauncher(cfg BrowserConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: cfg.Command,
		args:    cfg.Args,
		logger:  logger,
		start:   (*exec.Cmd).Start,
	}
}

// GamePageURL returns the public page of a game by slug, falling back to id
func GamePageURL(slug string, id int) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return WebBaseURL + slug
	}
	return fmt.Sprintf("%s%d", WebBaseURL, id)
}

// Open opens url without waiting for the browser to exit
func (l *Launcher) Open(url string) error {
	cmd := l.command
	if cmd == "" {
		return l.openDefault(url)
	}

	args := append(append([]string{}, l.args...), url)
	l.logger.Info("opening with configured browser", "command", cmd, "url", url)
	if err := l.start(exec.Command(cmd, args...)); err != nil {
		l.logger.Error("failed to launch browser", "error", err, "command", cmd)
		return fmt.Errorf("failed to launch %s: %w", cmd, err)
	}
	return nil
}

func (l *Launcher) openDefault(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("opening with system default", "os", runtime.GOOS, "url", url)

	return l.start(cmd)
}
