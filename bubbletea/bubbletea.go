// Package bubbletea provides a Bubble Tea TUI for the parley chat client.
//
// The TUI is the cooperative scheduler the core logic assumes: all state
// mutation happens on the Update goroutine, network round trips run as
// commands, and their results come back as messages tagged with the
// controller operation they belong to. Stale results are discarded by the
// controller's request-token check.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/parleyhq/parley"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown: when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SendResultMsg delivers the outcome of a send round trip.
type SendResultMsg struct {
	Op    parley.SendOp
	Reply parley.Reply
	Err   error
}

// SelectResultMsg delivers the records fetched for a conversation switch.
type SelectResultMsg struct {
	Op      parley.SelectOp
	Records []parley.Record
	Err     error
}

// ConversationsMsg delivers a rebuilt conversation list.
type ConversationsMsg struct {
	Conversations []parley.Conversation
	Err           error
}
