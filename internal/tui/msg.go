package tui

import "github.com/papapumpkin/strata/internal/ui"

// Generation lifecycle messages, sent by Bridge in response to ui.UI calls.

// MsgStarted is sent when generation begins.
type MsgStarted struct {
	Edition string
	Target  int
}

// MsgProgress carries a progress snapshot.
type MsgProgress struct {
	Progress ui.Progress
}

// MsgLinked is sent when a linked layer is resolved.
type MsgLinked struct {
	Layer       string
	Label       string
	LinkedLabel string
}

// MsgGenerationDone is sent when the generation loop ends.
type MsgGenerationDone struct {
	Progress ui.Progress
}

// MsgDeduplicated is sent after duplicate removal.
type MsgDeduplicated struct {
	Generated int
	Distinct  int
	Removed   int
}

// MsgInfo is an informational line.
type MsgInfo struct {
	Msg string
}

// MsgError is an error line.
type MsgError struct {
	Msg string
}

// MsgDone tells the program to exit.
type MsgDone struct {
	Err error
}
