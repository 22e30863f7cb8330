package tui

// Message types for the TUI. Session results arrive as session.*Msg and are
// routed to the session; these are the model's own.

// TickMsg drives the spinner
type TickMsg struct{}

// ClearStatusMsg clears the footer status
type ClearStatusMsg struct {
	// Seq identifies the status it clears; a newer status survives
	Seq int
}
