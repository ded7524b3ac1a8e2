package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/arcade/internal/domain"
)

// ChannelObserver adapts domain.ChangeObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan domain.Change
}

// NewChannelObserver creates an observer with a buffered channel
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan domain.Change, size)}
}

// OnChange sends the change to the channel (non-blocking if full).
func (o *ChannelObserver) OnChange(change domain.Change) {
	select {
	case o.ch <- change:
	default: // The UI rereads all state on the next change anyway
	}
}

// Wait returns a command that delivers the next change as a ChangedMsg
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg(<-o.ch)
	}
}
