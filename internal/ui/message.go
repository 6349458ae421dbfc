package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

// MsgKind enumerates all message types in the check view.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgChecksComplete
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// checksCompleteMsg is the constructor for [MsgChecksComplete]
func checksCompleteMsg(result *tasks.Result) Msg {
	return Msg{kind: MsgChecksComplete, data: result}
}
