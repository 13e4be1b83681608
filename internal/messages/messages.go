// Package messages holds the tea messages shared between UI components.
package messages

import "github.com/cheerioskun/textmarker/internal/command"

// FilesChangedMsg is sent when watched files changed on disk
type FilesChangedMsg struct {
	Paths []string // Absolute paths, sorted
}

// HighlightsChangedMsg is sent after any command that changes the live highlights
type HighlightsChangedMsg struct {
	Result command.Result // What the command did
	Source string         // Which component ran the command
}

// HighlightsRestoredMsg is sent once saved highlights have been re-issued at startup
type HighlightsRestoredMsg struct {
	Count int
	Err   error
}

// StatusMsg replaces the text of the status line
type StatusMsg struct {
	Text string
	Err  error
}

// RefreshComponentsMsg is sent to trigger component refreshes
type RefreshComponentsMsg struct {
	Reason string // Why the refresh was triggered
}
