package delivery

// Sender is the messaging capability the orchestrator consumes.
// *telegram.Client implements it; tests substitute fakes.
type Sender interface {
	SendMarkdown(chatID int64, body string) error
}

// Outcome records the delivery attempt for one destination.
type Outcome struct {
	ChatID     int64
	Name       string
	CalendarID string
	Success    bool
	EventCount int
	Error      string

	// RemovalCandidate is set when the send failed with a permanent
	// transport error (bot blocked, chat gone); the operator report
	// flags such destinations for cleanup.
	RemovalCandidate bool
}

// ReportOutcome records whether the diagnostic report reached the
// operator chat.
type ReportOutcome struct {
	Sent  bool
	Error string
}

// RunReport aggregates one delivery pass.
type RunReport struct {
	SuccessCount int
	ErrorCount   int
	Outcomes     []Outcome
	Report       ReportOutcome
}
